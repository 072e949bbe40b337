package router

import (
	"net/http"

	"go.uber.org/zap"

	"storefront/app/controller"
	"storefront/routing"
	"storefront/service"
	"storefront/web"
)

// Controllers are the page containers and handlers the router dispatches to
type Controllers struct {
	Pages    map[routing.PageRef]controller.PageContainer
	NotFound controller.PageContainer
	Sessions *controller.SessionManager
	// Images is nil when the SKU image proxy is disabled
	Images *controller.ImageController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// SetupRoutes builds the storefront handler: fixed endpoints first, then
// every other path goes through the route table
func SetupRoutes(table *routing.Table, controllers *Controllers, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Embedded CSS and image placeholder
	mux.Handle("/static/", web.StaticHandler())

	// SKU image proxy
	if controllers.Images != nil {
		mux.HandleFunc(service.SkuImagePath, controllers.Images.GetSkuImage)
	}

	// Storefront pages
	mux.Handle("/", &Dispatcher{
		table:       table,
		controllers: controllers,
		logger:      logger,
	})

	return Recover(logger, LogRequests(logger, mux))
}

// Dispatcher resolves a request path against the route table and hands it
// to the page container of the outermost match
type Dispatcher struct {
	table       *routing.Table
	controllers *Controllers
	logger      *zap.Logger
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := d.controllers.Sessions.SessionID(w, r)
	nav := controller.NewHTTPNavigator(w, r)

	chain := d.table.Resolve(r.URL.EscapedPath())
	rc := controller.RouteContext{Chain: chain, SessionID: sessionID, Nav: nav}

	if len(chain) == 0 {
		d.controllers.NotFound.Serve(w, r, rc)
		return
	}

	page, ok := d.controllers.Pages[chain[0].Route.Page]
	if !ok {
		d.logger.Error("❌ No page container registered",
			zap.String("page", string(chain[0].Route.Page)),
			zap.String("path", r.URL.Path),
		)
		d.controllers.NotFound.Serve(w, r, rc)
		return
	}

	rc.Params = rc.Leaf().Params
	page.Serve(w, r, rc)

	if to := nav.Pushed(); to != "" {
		d.logger.Debug("Page navigated",
			zap.String("from", r.URL.Path),
			zap.String("to", to),
		)
	}
}
