package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"go.uber.org/zap"

	"storefront/config"
	"storefront/models"
	"storefront/service"
)

// PlaceholderPath is where the local image placeholder is served
const PlaceholderPath = "/static/img-placeholder.svg"

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names accepted by Render
const (
	PageHome          = "home"
	PageCategory      = "category"
	PageProductDetail = "product_detail"
	PagePaymentForm   = "payment_form"
	PageB2B           = "b2b"
	PageContent       = "content"
	PageNotFound      = "not_found"
)

// Page is what every page template receives
type Page struct {
	Title string
	Data  any
}

// ProductItem is the template view of one product list item
type ProductItem struct {
	ProductURL string
	Loading    bool
	View       models.ProductListItemView
}

// ProductItemFrom snapshots a list item for rendering
func ProductItemFrom(item *service.ProductListItem) ProductItem {
	view, ok := item.View()
	return ProductItem{ProductURL: item.ProductURL(), Loading: !ok, View: view}
}

// Renderer renders the embedded page templates
type Renderer struct {
	pages  map[string]*template.Template
	logger *zap.Logger
}

// NewRenderer parses every page against the shared layout
func NewRenderer(intl config.Intl, logger *zap.Logger) (*Renderer, error) {
	funcs := template.FuncMap{
		"t":           intl.Get,
		"locale":      intl.Locale,
		"placeholder": func() string { return PlaceholderPath },
	}

	base, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/layout/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout templates: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list page templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")

		tmpl, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", name, err)
		}
		if _, err := tmpl.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages, logger: logger}, nil
}

// Render writes page name with status. Templates execute into a buffer so a
// template error never leaves a half-written page.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) {
	tmpl, ok := r.pages[name]
	if !ok {
		r.logger.Error("❌ Unknown page template", zap.String("page", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		r.logger.Error("❌ Error rendering page", zap.String("page", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// StaticHandler serves the embedded static assets under /static/
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// Placeholder returns the image placeholder asset
func Placeholder() []byte {
	data, err := staticFS.ReadFile("static/img-placeholder.svg")
	if err != nil {
		panic(err)
	}
	return data
}
