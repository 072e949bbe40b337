package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storefront/config"
	"storefront/models"
	"storefront/utils"
)

// ErrMalformedProduct is returned when a product response lacks a required field
var ErrMalformedProduct = errors.New("malformed product response")

// ProductZoom is the zoom list requested for every product list item
var ProductZoom = []string{
	"availability",
	"addtocartform",
	"price",
	"rate",
	"definition",
	"definition:assets:element",
	"definition:options:element",
	"definition:options:element:value",
	"definition:options:element:selector:choice",
	"definition:options:element:selector:chosen",
	"definition:options:element:selector:choice:description",
	"definition:options:element:selector:chosen:description",
	"definition:options:element:selector:choice:selector",
	"definition:options:element:selector:chosen:selector",
	"code",
}

// ProductDetailPath is the storefront route prefix of product detail pages
const ProductDetailPath = "/itemdetail/"

// ProductService loads product list items from Cortex
type ProductService struct {
	cortex  CortexServiceInterface
	images  *ImageService
	intl    config.Intl
	catalog config.CatalogConfig
	logger  *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(cortex CortexServiceInterface, images *ImageService, intl config.Intl, catalog config.CatalogConfig, logger *zap.Logger) *ProductService {
	return &ProductService{
		cortex:  cortex,
		images:  images,
		intl:    intl,
		catalog: catalog,
		logger:  logger,
	}
}

// Project builds the view of a product response. Cortex wraps every zoomed
// resource in an array, so each field is read from index 0.
func (s *ProductService) Project(p models.CortexProduct) (models.ProductListItemView, error) {
	if len(p.Code) == 0 || p.Code[0].Code == "" {
		return models.ProductListItemView{}, fmt.Errorf("%w: missing _code", ErrMalformedProduct)
	}
	if len(p.Definition) == 0 {
		return models.ProductListItemView{}, fmt.Errorf("%w: missing _definition", ErrMalformedProduct)
	}
	if len(p.Availability) == 0 {
		return models.ProductListItemView{}, fmt.Errorf("%w: missing _availability", ErrMalformedProduct)
	}

	code := p.Code[0].Code
	locale := s.intl.Locale()

	listPrice, purchasePrice := utils.PriceUnavailable, utils.PriceUnavailable
	if len(p.Price) > 0 {
		listPrice = utils.FirstPrice(p.Price[0].ListPrice, locale)
		purchasePrice = utils.FirstPrice(p.Price[0].PurchasePrice, locale)
	}

	availability := p.Availability[0]
	state := utils.MapAvailabilityState(availability.State)

	view := models.ProductListItemView{
		Code:              code,
		DisplayName:       p.Definition[0].DisplayName,
		ListPrice:         listPrice,
		PurchasePrice:     purchasePrice,
		Availability:      state,
		AvailabilityLabel: s.intl.Get(utils.MapAvailabilityToMessageID(state)),
		Available:         utils.IsPurchasable(state),
		SelfURI:           p.Self.URI,
		DetailURL:         ProductDetailPath + url.PathEscape(p.Self.URI),
		ImageURL:          s.images.URLFor(code),
	}
	if availability.ReleaseDate != nil {
		view.ReleaseDate = availability.ReleaseDate.DisplayValue
	}
	if len(p.AddToCartForm) > 0 {
		view.AddToCartURI = p.AddToCartForm[0].ActionURI("addtodefaultcartaction")
	}

	return view, nil
}

// NewItem creates an unmounted list item for the product at productURL
func (s *ProductService) NewItem(sessionID, productURL string) *ProductListItem {
	return &ProductListItem{
		productURL: productURL,
		sessionID:  sessionID,
		service:    s,
		loading:    true,
		logger:     s.logger.With(zap.String("product", productURL)),
	}
}

// LoadGrid loads one item per product URL with bounded concurrency and
// waits for all of them. Items that fail or miss the page deadline stay loading.
func (s *ProductService) LoadGrid(ctx context.Context, sessionID string, productURLs []string) []*ProductListItem {
	items := make([]*ProductListItem, len(productURLs))
	for i, u := range productURLs {
		items[i] = s.NewItem(sessionID, u)
	}
	if len(items) == 0 {
		return items
	}

	timeout := s.catalog.ItemFetchTimeout.Duration
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	limit := s.catalog.ItemFetchLimit
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	start := time.Now()
	for _, item := range items {
		g.Go(func() error {
			// failures are logged by the item and must not cancel siblings
			item.Mount(gctx)
			item.Wait()
			return nil
		})
	}
	_ = g.Wait()

	// the page is built from here on; no late fetch may change an item
	for _, item := range items {
		item.Unmount()
	}

	loaded := 0
	for _, item := range items {
		if !item.Loading() {
			loaded++
		}
	}
	s.logger.Info("📦 Product grid loaded",
		zap.Int("requested", len(items)),
		zap.Int("loaded", loaded),
		zap.Duration("took", time.Since(start)))

	return items
}

// fetch GETs and projects one product
func (s *ProductService) fetch(ctx context.Context, sessionID, productURL string) (models.ProductListItemView, error) {
	if !ValidResourceURI(productURL) {
		return models.ProductListItemView{}, fmt.Errorf("product %q: %w", productURL, ErrInvalidResourceURI)
	}

	var product models.CortexProduct
	if err := s.cortex.Fetch(ctx, sessionID, productURL, ProductZoom, &product); err != nil {
		return models.ProductListItemView{}, err
	}
	return s.Project(product)
}
