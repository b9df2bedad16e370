// Package markdown renders post bodies to sanitized HTML, as a string for
// html/template and as a templ component.
package markdown

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"regexp"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	engine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithXHTML()),
	)
	policy = newPolicy()
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+-]+$`)).OnElements("code")
	p.AllowAttrs("id").Matching(regexp.MustCompile(`^[\w-]+$`)).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	return p
}

// Render converts markdown to sanitized HTML.
func Render(md string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := RenderTo(&buf, md); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// RenderTo writes the sanitized HTML of md to w.
func RenderTo(w io.Writer, md string) error {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(md), &buf); err != nil {
		return err
	}
	_, err := w.Write(policy.SanitizeBytes(buf.Bytes()))
	return err
}

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return RenderTo(w, content)
	})
}
