// Package view renders the server side pages. It implements fiber.Views over
// html/template with the templates compiled into the binary.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
)

//go:embed templates
var templatesFS embed.FS

const (
	LayoutMain  = "layouts/main"
	contentName = "content"
)

type Engine struct {
	fs    fs.FS
	funcs template.FuncMap

	mu     sync.RWMutex
	loaded bool
	base   *template.Template
	pages  map[string]*template.Template
}

func New() *Engine {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	return &Engine{
		fs: sub,
		funcs: template.FuncMap{
			"add": func(a, b int) int { return a + b },
			"sub": func(a, b int) int { return a - b },
		},
	}
}

// Load parses layouts and partials once, then every page on top of a clone of
// them, so each page can define its own "title" and "content" blocks.
func (e *Engine) Load() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	base, err := template.New("").Funcs(e.funcs).ParseFS(e.fs, "layouts/*.html", "partials/*.html")
	if err != nil {
		return fmt.Errorf("view: parse layouts: %w", err)
	}

	files, err := fs.Glob(e.fs, "pages/*.html")
	if err != nil {
		return err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		t, err := base.Clone()
		if err != nil {
			return err
		}
		if _, err := t.ParseFS(e.fs, file); err != nil {
			return fmt.Errorf("view: parse %s: %w", file, err)
		}
		pages[strings.TrimSuffix(file, path.Ext(file))] = t
	}

	e.base = base
	e.pages = pages
	e.loaded = true
	return nil
}

// Render executes page name inside the first non-empty layout. Partials
// ("partials/...") and pages rendered without a layout produce a fragment.
func (e *Engine) Render(w io.Writer, name string, binding interface{}, layouts ...string) error {
	e.mu.RLock()
	loaded := e.loaded
	e.mu.RUnlock()
	if !loaded {
		if err := e.Load(); err != nil {
			return err
		}
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if strings.HasPrefix(name, "partials/") {
		return e.base.ExecuteTemplate(w, name, binding)
	}

	t, ok := e.pages[name]
	if !ok {
		return fmt.Errorf("view: page %q not found", name)
	}

	for _, layout := range layouts {
		if layout != "" {
			return t.ExecuteTemplate(w, layout, binding)
		}
	}
	return t.ExecuteTemplate(w, contentName, binding)
}
