package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"storefront/app/controller"
	"storefront/app/router"
	"storefront/config"
	"storefront/db"
	"storefront/repository"
	"storefront/routing"
	"storefront/service"
	"storefront/web"
)

// App is the wired storefront
type App struct {
	Handler http.Handler
	Table   *routing.Table
	db      *sql.DB
	tokens  repository.TokenRepositoryInterface
	session config.SessionConfig
	logger  *zap.Logger
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	table, err := routing.NewTable(router.StorefrontRoutes())
	if err != nil {
		return nil, fmt.Errorf("invalid route table: %w", err)
	}

	intl, err := config.NewIntl(cfg.I18n.Locale)
	if err != nil {
		return nil, err
	}

	// Session token store: SQL when a database is configured, memory otherwise
	var (
		conn   *sql.DB
		tokens repository.TokenRepositoryInterface
	)
	if cfg.Database.URL != "" {
		conn, err = db.InitDB(ctx, cfg.Database.Driver, cfg.Database.URL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		tokens = repository.NewTokenRepository(conn, repository.DialectForDriver(cfg.Database.Driver), logger)
	} else {
		logger.Info("No database configured, keeping session tokens in memory")
		tokens = repository.NewMemoryTokenRepository()
	}

	httpClient := &http.Client{Timeout: cfg.CortexAPI.Timeout.Duration}

	// Initialize services
	auth := service.NewAuthService(httpClient, cfg.CortexAPI, tokens, logger)
	cortex := service.NewCortexService(httpClient, cfg.CortexAPI, auth, logger)
	images := service.NewImageService(httpClient, cfg.SkuImagesS3URL, cfg.Images, logger)
	products := service.NewProductService(cortex, images, intl, cfg.Catalog, logger)

	tokenizer, err := service.NewMACTokenizer(cfg.Payments.TokenizerSecret)
	if err != nil {
		closeDB(conn, logger)
		return nil, fmt.Errorf("failed to create card tokenizer: %w", err)
	}
	if cfg.Payments.TokenizerSecret == "" {
		logger.Warn("⚠️  No tokenizer secret configured, card tokens change on every restart")
	}

	renderer, err := web.NewRenderer(intl, logger)
	if err != nil {
		closeDB(conn, logger)
		return nil, err
	}

	// Create controllers
	category := controller.NewCategoryController(cortex, products, renderer, intl, logger)
	pages := map[routing.PageRef]controller.PageContainer{
		router.PageHome:             controller.NewHomePage(renderer, intl, cfg.Catalog.HomeCategories),
		router.PageCategory:         category,
		router.PageProductDetail:    controller.NewProductDetailController(cortex, products, renderer, intl, logger),
		router.PageAddPaymentMethod: controller.NewPaymentController(cortex, tokenizer, renderer, intl, cfg.CortexAPI.Scope, logger),
		router.PageB2BMain:          controller.NewB2BController(renderer, intl, router.B2BTitles),
	}
	for page, titleKey := range router.ContentTitles {
		pages[page] = controller.NewContentPage(renderer, intl, titleKey)
	}

	controllers := &router.Controllers{
		Pages:    pages,
		NotFound: controller.NewNotFoundPage(renderer, intl),
		Sessions: controller.NewSessionManager(cfg.IsProduction(), logger),
	}
	if cfg.Images.Proxy {
		controllers.Images = controller.NewImageController(images, logger)
	}

	// Every top-level page of the table needs a container
	for _, d := range router.StorefrontRoutes() {
		if _, ok := pages[d.Page]; !ok {
			closeDB(conn, logger)
			return nil, fmt.Errorf("no page container for %s (%s)", d.Page, d.Path)
		}
	}

	return &App{
		Handler: router.SetupRoutes(table, controllers, logger),
		Table:   table,
		db:      conn,
		tokens:  tokens,
		session: cfg.Session,
		logger:  logger,
	}, nil
}

// SweepTokens drops session tokens idle for longer than the configured TTL
// until ctx is done
func (a *App) SweepTokens(ctx context.Context) {
	a.logger.Info("Session token sweep started",
		zap.Duration("ttl", a.session.TokenTTL.Duration),
		zap.Duration("interval", a.session.PruneInterval.Duration),
	)
	repository.SweepTokens(ctx, a.tokens, a.session.TokenTTL.Duration, a.session.PruneInterval.Duration, a.logger)
}

// Close releases the database connection, if any
func (a *App) Close() {
	closeDB(a.db, a.logger)
}

func closeDB(conn *sql.DB, logger *zap.Logger) {
	if conn == nil {
		return
	}
	if err := conn.Close(); err != nil {
		logger.Warn("⚠️  Failed to close database", zap.Error(err))
	}
}
