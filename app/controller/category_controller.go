package controller

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"storefront/config"
	"storefront/models"
	"storefront/routing"
	"storefront/service"
	"storefront/web"
)

// Navigation targets of the category page
const (
	CartPath                = "/mycart"
	WishListsPath           = "/account/wishlists"
	RequisitionListItemPath = "/b2b/requisition-list-item"
)

// ProductLinks are the link prefixes the product grid renders
type ProductLinks struct {
	ItemDetail      string
	ProductsCompare string
	ProductSearch   string
	ProductCategory string
}

// DefaultProductLinks are the storefront routes of product pages
var DefaultProductLinks = ProductLinks{
	ItemDetail:      "/itemdetail",
	ProductsCompare: "/productscompare",
	ProductSearch:   "/search",
	ProductCategory: "/category",
}

// CategoryCallbacks are the navigation callbacks of the category and search pages
type CategoryCallbacks struct {
	OnProductFacetSelection func(offerSearchURI, title string)
	OnAddToCart             func()
	OnAddToWishList         func()
	OnRequisitionPage       func()
}

// NewCategoryCallbacks binds the callbacks to a navigator. currentPath
// decides whether facet selections stay under /category or /search.
func NewCategoryCallbacks(nav Navigator, currentPath string) CategoryCallbacks {
	return CategoryCallbacks{
		OnProductFacetSelection: func(offerSearchURI, title string) {
			nav.Push(FacetSelectionPath(currentPath, title, offerSearchURI))
		},
		OnAddToCart:       func() { nav.Push(CartPath) },
		OnAddToWishList:   func() { nav.Push(WishListsPath) },
		OnRequisitionPage: func() { nav.Push(RequisitionListItemPath) },
	}
}

// FacetSelectionPath is /category/{title}{uri} on category pages and
// /search/{title}{uri} everywhere else. Paths match case-insensitively.
func FacetSelectionPath(currentPath, title, offerSearchURI string) string {
	prefix := DefaultProductLinks.ProductSearch
	if strings.Contains(strings.ToLower(currentPath), "category") {
		prefix = DefaultProductLinks.ProductCategory
	}
	if !strings.HasPrefix(offerSearchURI, "/") {
		offerSearchURI = "/" + offerSearchURI
	}
	return prefix + "/" + url.PathEscape(title) + offerSearchURI
}

// CategoryData is the template data of the category and search pages
type CategoryData struct {
	Heading string
	Notice  string
	Items   []web.ProductItem
	Links   ProductLinks
}

// CategoryController serves /category and /search pages
type CategoryController struct {
	cortex   service.CortexServiceInterface
	products *service.ProductService
	renderer *web.Renderer
	intl     config.Intl
	logger   *zap.Logger
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(cortex service.CortexServiceInterface, products *service.ProductService, renderer *web.Renderer, intl config.Intl, logger *zap.Logger) *CategoryController {
	return &CategoryController{
		cortex:   cortex,
		products: products,
		renderer: renderer,
		intl:     intl,
		logger:   logger,
	}
}

// Serve handles GET (render the grid) and POST (grid actions)
func (c *CategoryController) Serve(w http.ResponseWriter, r *http.Request, rc RouteContext) {
	callbacks := NewCategoryCallbacks(rc.Nav, r.URL.Path)

	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		c.handleAction(w, r, rc, callbacks)
		return
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	isSearch := strings.HasPrefix(rc.Leaf().Route.Path, DefaultProductLinks.ProductSearch)

	// the header search box submits /search?keywords=...
	if isSearch && rc.Param("keywords") == "" {
		if kw := strings.TrimSpace(r.URL.Query().Get("keywords")); kw != "" {
			rc.Nav.Push(DefaultProductLinks.ProductSearch + "/" + url.PathEscape(kw))
			return
		}
	}

	titleKey := "page-category"
	heading := rc.Param("id")
	if isSearch {
		titleKey = "page-search"
		heading = rc.Param("keywords")
	}
	if heading == "" {
		heading = c.intl.Get(titleKey)
	}

	data := CategoryData{Heading: heading, Links: DefaultProductLinks}

	list, err := c.itemList(r.Context(), rc, isSearch)
	if err != nil {
		c.logger.Warn("⚠️  Failed to load product list", zap.String("path", r.URL.Path), zap.Error(err))
	}
	if list != nil {
		items := c.products.LoadGrid(r.Context(), rc.SessionID, list.ElementURIs())
		for _, item := range items {
			data.Items = append(data.Items, web.ProductItemFrom(item))
		}
	}

	c.renderer.Render(w, http.StatusOK, web.PageCategory, web.Page{Title: c.intl.Get(titleKey), Data: data})
}

// itemList picks the Cortex source of the grid: an offer search from a facet
// selection, a keyword search or a navigation lookup
func (c *CategoryController) itemList(ctx context.Context, rc RouteContext, isSearch bool) (*models.CortexItemList, error) {
	if offerSearch := rc.Param(routing.WildcardParam); offerSearch != "" {
		return c.cortex.FetchOfferSearch(ctx, rc.SessionID, offerSearch)
	}
	if isSearch {
		if kw := rc.Param("keywords"); kw != "" {
			return c.cortex.SearchKeywords(ctx, rc.SessionID, kw)
		}
		return nil, nil
	}
	if id := rc.Param("id"); id != "" {
		return c.cortex.LookupNavigation(ctx, rc.SessionID, id)
	}
	return nil, nil
}

// handleAction runs a grid action and navigates
func (c *CategoryController) handleAction(w http.ResponseWriter, r *http.Request, rc RouteContext, callbacks CategoryCallbacks) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	switch action := r.PostForm.Get("action"); action {
	case "add-to-cart":
		addToCart(r.Context(), c.cortex, rc.SessionID, r.PostForm, c.logger)
		callbacks.OnAddToCart()
	case "add-to-wishlist":
		callbacks.OnAddToWishList()
	case "requisition":
		callbacks.OnRequisitionPage()
	case "facet":
		offerSearch := strings.TrimSpace(r.PostForm.Get("offerSearch"))
		title := strings.TrimSpace(r.PostForm.Get("title"))
		if offerSearch == "" || title == "" {
			http.Error(w, "offerSearch and title are required", http.StatusBadRequest)
			return
		}
		callbacks.OnProductFacetSelection(offerSearch, title)
	default:
		c.logger.Warn("⚠️  Unknown category action", zap.String("action", action))
		http.Error(w, "Unknown action", http.StatusBadRequest)
	}
}

// addToCart posts the add-to-cart form of an item when the page sent one.
// Failures are logged; the visitor still lands on the cart.
func addToCart(ctx context.Context, cortex service.CortexServiceInterface, sessionID string, form url.Values, logger *zap.Logger) {
	uri := form.Get("addToCartURI")
	if !strings.HasPrefix(uri, "/") {
		return
	}

	qty, err := strconv.Atoi(form.Get("quantity"))
	if err != nil || qty < 1 {
		qty = 1
	}

	if _, err := cortex.Post(ctx, sessionID, uri, map[string]int{"quantity": qty}); err != nil {
		logger.Warn("⚠️  Add to cart failed", zap.String("uri", uri), zap.Error(err))
		return
	}
	logger.Info("🛒 Item added to cart", zap.String("uri", uri), zap.Int("quantity", qty))
}
