package render

import (
	"bytes"
	_ "embed"
	"html/template"
	"strings"

	"resume-builder/internal/resumes"
)

//go:embed resume.html.tmpl
var resumeTemplate string

// Renderer projects a resume document into a standalone HTML page. Rendering
// reads the document and nothing else; the same document always produces the
// same page.
type Renderer struct {
	tpl *template.Template
}

// NewRenderer parses the resume template. It panics on a malformed template
// since that is a build defect, not a runtime condition.
func NewRenderer() *Renderer {
	tpl := template.Must(template.New("resume").Funcs(template.FuncMap{
		"lines": splitLines,
		// the image value is a data URL our own upload path encoded, which
		// the default URL filter would otherwise reject
		"imageURL": func(s string) template.URL { return template.URL(s) },
	}).Parse(resumeTemplate))
	return &Renderer{tpl: tpl}
}

// Render produces the HTML page for doc. Every section is rendered even when
// empty so the page layout stays stable while the document is being edited.
func (r *Renderer) Render(doc resumes.ResumeDocument) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// splitLines breaks a description into bullet lines, dropping blanks.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
