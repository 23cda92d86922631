// Package homebook implements the computation engine behind a personal or
// family ledger: transactions recorded against accounts, grouped into books
// with optional shared-ownership rules, categorized hierarchically, and
// valued in multiple currencies.
//
// The core functionalities include:
//   - Currency Exchange: A registry of currencies and directional exchange
//     rates, resolving direct, inverse, or base-currency cross rates, with
//     fee-aware conversion and locale-aware formatting.
//   - Category Catalog: Hierarchy and visibility queries over a flat list of
//     category records with per-book membership and archival state.
//   - Ownership Distribution: The expected split from a book's static rules,
//     the split actually observed from expense history, and the two-party
//     slider figure derived from it.
//   - Snapshot Codec: Decoding and encoding the entity records in a
//     human-readable, version-controllable JSONL form.
//
// Every computation works on an in-memory snapshot of plain records and
// degrades to conservative defaults instead of failing: a single malformed
// record must never abort a batch computation.
//
// This package serves as the foundational logic for the `hbk` command-line
// tool.
package homebook
