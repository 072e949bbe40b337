package controller

import (
	"net/http"

	"go.uber.org/zap"

	"storefront/config"
	"storefront/service"
	"storefront/web"
)

// ProductDetailData is the template data of the product detail page
type ProductDetailData struct {
	Item web.ProductItem
}

// ProductDetailController serves /itemdetail/:url
type ProductDetailController struct {
	cortex   service.CortexServiceInterface
	products *service.ProductService
	renderer *web.Renderer
	intl     config.Intl
	logger   *zap.Logger
}

// NewProductDetailController creates a new ProductDetailController
func NewProductDetailController(cortex service.CortexServiceInterface, products *service.ProductService, renderer *web.Renderer, intl config.Intl, logger *zap.Logger) *ProductDetailController {
	return &ProductDetailController{
		cortex:   cortex,
		products: products,
		renderer: renderer,
		intl:     intl,
		logger:   logger,
	}
}

func (c *ProductDetailController) Serve(w http.ResponseWriter, r *http.Request, rc RouteContext) {
	productURL := rc.Param("url")

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("action") != "add-to-cart" {
			http.Error(w, "Unknown action", http.StatusBadRequest)
			return
		}
		addToCart(r.Context(), c.cortex, rc.SessionID, r.PostForm, c.logger)
		rc.Nav.Push(CartPath)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	title := c.intl.Get("page-product-detail")
	if productURL == "" {
		c.renderer.Render(w, http.StatusNotFound, web.PageNotFound, web.Page{Title: c.intl.Get("not-found")})
		return
	}

	items := c.products.LoadGrid(r.Context(), rc.SessionID, []string{productURL})
	data := ProductDetailData{Item: web.ProductItemFrom(items[0])}
	if view, ok := items[0].View(); ok {
		title = view.DisplayName
	}

	c.renderer.Render(w, http.StatusOK, web.PageProductDetail, web.Page{Title: title, Data: data})
}
