package web

import (
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var StaticFS embed.FS

// DashboardData feeds the dashboard page.
type DashboardData struct {
	Host string
}

type TemplateRegistry struct {
	cache map[string]*template.Template
}

func NewTemplateRegistry() (*TemplateRegistry, error) {
	tr := &TemplateRegistry{cache: make(map[string]*template.Template)}

	for _, page := range []string{"login.html", "dashboard.html"} {
		t, err := template.New(page).ParseFS(templateFS, "templates/"+page)
		if err != nil {
			return nil, err
		}
		tr.cache[page] = t
	}

	return tr, nil
}

func (tr *TemplateRegistry) Render(w http.ResponseWriter, name string, data any) {
	t, ok := tr.cache[name]
	if !ok {
		http.Error(w, "template not found: "+name, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.Execute(w, data); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}
