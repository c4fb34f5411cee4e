package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"eventsapp/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names. Each page is parsed together with the shared layout and event form.
const (
	pageIndex        = "index"
	pageCreate       = "create"
	pageUpdate       = "update"
	pageDetail       = "detail"
	pageLogin        = "login"
	pageSignup       = "signup"
	pageUnauthorized = "unauthorized"
	pageNotFound     = "not_found"
	pageError        = "error"
)

var pageNames = []string{
	pageIndex, pageCreate, pageUpdate, pageDetail, pageLogin,
	pageSignup, pageUnauthorized, pageNotFound, pageError,
}

var templateFuncs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		return t.UTC().Format(domain.DateLayout)
	},
	"eventType": func(public bool) string {
		if public {
			return "Público"
		}
		return "Privado"
	},
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/event_form.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// Render executes the named page into w.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("page %q not found", name)
	}
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("render page %s: %w", name, err)
	}
	return nil
}
