// Package markup renders post text for display.
package markup

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	md     goldmark.Markdown
	policy *bluemonday.Policy
)

func init() {
	md = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
			// raw HTML is passed through here and stripped by the policy below
			html.WithUnsafe(),
		),
	)

	policy = bluemonday.UGCPolicy()
	policy.AllowElements("table", "thead", "tbody", "tr", "th", "td")
}

// Render converts Markdown text into sanitized HTML safe to embed in a page.
// If conversion fails the text is escaped and returned as a paragraph.
func Render(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(text) + "</p>")
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes()))
}

// Funcs returns the template functions this package provides.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"markdown": Render,
	}
}
