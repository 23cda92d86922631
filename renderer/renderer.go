// Package renderer turns computation results into markdown reports.
//
// Reports assembled from several sections use text/template over embedded
// partial files; simple tabular reports are built programmatically.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed *.md
var templates embed.FS

// RenderSplit renders the split report view to a markdown string.
func RenderSplit(s *Split) string {
	partials := map[string]string{
		"split_title":  "split_title.md",
		"split_owners": "split_owners.md",
	}
	return renderTemplate("split", "split.md", partials, s)
}

// RenderSlider renders the two-party slider view to a markdown string.
func RenderSlider(s *SliderView) string {
	return renderTemplate("slider", "slider.md", nil, s)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
