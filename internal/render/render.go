// Package render turns plan Markdown into HTML pages and publishes them.
package render

import (
	"bytes"
	_ "embed"
	"html/template"
	"time"

	"github.com/myrjola/fightcamp/internal/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

//go:embed page.gohtml
var pageTemplate string

// Renderer converts Markdown to HTML. Raw HTML in the Markdown source is not passed through.
type Renderer struct {
	markdown goldmark.Markdown
	page     *template.Template
}

func New() *Renderer {
	return &Renderer{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		page: template.Must(template.New("page").Parse(pageTemplate)),
	}
}

// Fragment renders markdown as an HTML fragment.
func (r *Renderer) Fragment(markdown string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(markdown), &buf); err != nil {
		return "", errors.Wrap(err, "convert markdown")
	}
	return template.HTML(buf.String()), nil //nolint:gosec // goldmark escapes raw HTML by default.
}

type pageData struct {
	Title     string
	Athlete   string
	Generated time.Time
	Body      template.HTML
}

// Page renders markdown as a standalone HTML document.
func (r *Renderer) Page(title, athlete, markdown string, generated time.Time) ([]byte, error) {
	body, err := r.Fragment(markdown)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	data := pageData{Title: title, Athlete: athlete, Generated: generated, Body: body}
	if err = r.page.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(err, "execute page template")
	}
	return buf.Bytes(), nil
}
