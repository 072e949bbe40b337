package controller

import (
	"net/http"

	"storefront/config"
	"storefront/web"
)

// ContentData is the template data of a titled content page
type ContentData struct {
	Params map[string]string
}

// ContentPage renders a titled page with its route params. It serves the
// informational pages and the account and checkout pages.
type ContentPage struct {
	renderer *web.Renderer
	intl     config.Intl
	titleKey string
}

// NewContentPage creates a ContentPage titled by the message titleKey
func NewContentPage(renderer *web.Renderer, intl config.Intl, titleKey string) *ContentPage {
	return &ContentPage{renderer: renderer, intl: intl, titleKey: titleKey}
}

func (p *ContentPage) Serve(w http.ResponseWriter, r *http.Request, rc RouteContext) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	p.renderer.Render(w, http.StatusOK, web.PageContent, web.Page{
		Title: p.intl.Get(p.titleKey),
		Data:  ContentData{Params: rc.Params},
	})
}

// NotFoundPage renders the 404 page
type NotFoundPage struct {
	renderer *web.Renderer
	intl     config.Intl
}

// NewNotFoundPage creates a NotFoundPage
func NewNotFoundPage(renderer *web.Renderer, intl config.Intl) *NotFoundPage {
	return &NotFoundPage{renderer: renderer, intl: intl}
}

func (p *NotFoundPage) Serve(w http.ResponseWriter, r *http.Request, _ RouteContext) {
	p.renderer.Render(w, http.StatusNotFound, web.PageNotFound, web.Page{Title: p.intl.Get("not-found")})
}

// HomeData is the template data of the home page
type HomeData struct {
	Categories []string
}

// HomePage renders the landing page
type HomePage struct {
	renderer   *web.Renderer
	intl       config.Intl
	categories []string
}

// NewHomePage creates a HomePage linking to categories
func NewHomePage(renderer *web.Renderer, intl config.Intl, categories []string) *HomePage {
	return &HomePage{renderer: renderer, intl: intl, categories: categories}
}

func (p *HomePage) Serve(w http.ResponseWriter, r *http.Request, _ RouteContext) {
	p.renderer.Render(w, http.StatusOK, web.PageHome, web.Page{
		Title: p.intl.Get("page-home"),
		Data:  HomeData{Categories: p.categories},
	})
}
