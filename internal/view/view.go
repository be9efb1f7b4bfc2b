package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
)

/* The controller never writes HTML itself: it picks a template name and the data it needs.
 * Renderer turns that pair into a response.
 */

// Template names
const (
	Home     = "home"
	BookList = "books/all"
	BookEdit = "books/edit"
)

// View is a template name plus the data mapping handed to it
type View struct {
	Name string
	Data map[string]any
}

// New builds a View from key/value pairs; odd trailing keys are ignored
func New(name string, kv ...any) View {
	data := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		data[key] = kv[i+1]
	}
	return View{Name: name, Data: data}
}

type Renderer interface {
	Render(w http.ResponseWriter, status int, v View) error
}

//go:embed templates/*.html templates/books/*.html
var templateFS embed.FS

// TemplateRenderer renders the embedded html/template pages
type TemplateRenderer struct {
	tmpl *template.Template
}

func NewTemplateRenderer() (*TemplateRenderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"isNew": func(id int64) bool { return id == 0 },
	}).ParseFS(templateFS, "templates/*.html", "templates/books/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &TemplateRenderer{tmpl: tmpl}, nil
}

// Render executes into a buffer first so a template error can still become a 500
func (r *TemplateRenderer) Render(w http.ResponseWriter, status int, v View) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, v.Name, v.Data); err != nil {
		return fmt.Errorf("rendering %s: %w", v.Name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := io.Copy(w, &buf)
	return err
}
