package controller

import (
	"net/http"

	"storefront/config"
	"storefront/routing"
	"storefront/web"
)

// B2BData is the template data of the business account pages
type B2BData struct {
	Heading string
	Render  string
}

// B2BController serves /b2b and its nested table. Nested descriptors either
// name a page, titled through titleKeys, or carry a static render text.
type B2BController struct {
	renderer  *web.Renderer
	intl      config.Intl
	titleKeys map[routing.PageRef]string
}

// NewB2BController creates a new B2BController
func NewB2BController(renderer *web.Renderer, intl config.Intl, titleKeys map[routing.PageRef]string) *B2BController {
	return &B2BController{renderer: renderer, intl: intl, titleKeys: titleKeys}
}

func (c *B2BController) Serve(w http.ResponseWriter, r *http.Request, rc RouteContext) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	leaf := rc.Leaf()
	data := B2BData{Render: leaf.Route.Render}

	key, ok := c.titleKeys[leaf.Route.Page]
	if !ok {
		key = "page-b2b"
	}
	data.Heading = c.intl.Get(key)

	title := data.Heading
	if data.Render != "" {
		title = data.Render
	}

	c.renderer.Render(w, http.StatusOK, web.PageB2B, web.Page{Title: title, Data: data})
}
