// Package views holds the HTML templates, embedded into the binary.
//
// Every page is parsed together with layout.html and the includes, and is
// executed through the "layout" template, which calls the page's "title"
// and "content" blocks.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"time"

	"yatube/app/markup"
)

//go:embed layout.html includes/*.html posts/*.html about/*.html users/*.html errors/*.html
var files embed.FS

//go:embed static
var static embed.FS

// Pages lists every renderable page by name.
var Pages = []string{
	"posts/index",
	"posts/group_list",
	"posts/profile",
	"posts/post_detail",
	"posts/create_post",
	"about/author",
	"about/tech",
	"users/login",
	"users/signup",
	"users/logged_out",
	"errors/404",
	"errors/500",
}

// Renderer executes the parsed page templates.
type Renderer struct {
	templates map[string]*template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	return NewFromFS(files)
}

// NewFromFS parses templates from fsys, laid out like this package.
func NewFromFS(fsys fs.FS) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(Pages))
	for _, page := range Pages {
		t, err := template.New("layout.html").Funcs(Funcs()).ParseFS(fsys,
			"layout.html",
			"includes/*.html",
			page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		templates[page] = t
	}
	return &Renderer{templates: templates}, nil
}

// Render writes page with data. Output is buffered so that a failing
// template never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, page string, data interface{}) error {
	t, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Static returns the stylesheets and other assets served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Funcs returns the helpers available to every template.
func Funcs() template.FuncMap {
	funcs := template.FuncMap{
		"date": func(t time.Time) string {
			return t.Format("2 January 2006")
		},
		"excerpt": func(text string, n int) string {
			runes := []rune(text)
			if len(runes) <= n {
				return text
			}
			return strings.TrimSpace(string(runes[:n])) + "…"
		},
	}
	for name, fn := range markup.Funcs() {
		funcs[name] = fn
	}
	return funcs
}
