package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"iwingmobile-store/app/controller"
	"iwingmobile-store/app/router"
	"iwingmobile-store/config"
	"iwingmobile-store/db"
	"iwingmobile-store/repository"
	"iwingmobile-store/service"
)

// App holds the HTTP handler and the connections it owns
type App struct {
	Handler http.Handler
	closers []func() error
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	a := &App{}

	// Catalog database
	catalogDB, err := db.OpenPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.closers = append(a.closers, catalogDB.Close)

	if err := db.EnsureCatalogSchema(ctx, catalogDB); err != nil {
		a.Close()
		return nil, err
	}
	if err := db.EnsureReviewSchema(ctx, catalogDB, db.Postgres); err != nil {
		a.Close()
		return nil, err
	}
	log.Info("✅ Initialize: Connected to catalog database")

	reviews, err := repository.NewReviewRepository(catalogDB, db.Postgres, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	slots, err := a.openSlots(ctx, cfg, catalogDB, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	log.Info("✅ Initialize: Cart slot store ready", zap.String("driver", cfg.CartSlotDriver))

	summaryService, err := service.NewCartSummaryService(cfg.ChromePath, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Handler = NewHandler(
		repository.NewProductRepository(catalogDB, log),
		reviews,
		slots,
		summaryService,
		cfg.CartSlotPrefix,
		log,
		service.WithSessionCache(cfg.CartSessionCacheSize, cfg.CartSessionIdleTTL),
	)
	return a, nil
}

// NewHandler wires services and controllers over the given stores
func NewHandler(
	products repository.ProductRepositoryInterface,
	reviews repository.ReviewRepositoryInterface,
	slots repository.SlotRepositoryInterface,
	summary service.CartSummaryServiceInterface,
	slotPrefix string,
	log *zap.Logger,
	cartOpts ...service.CartServiceOption,
) http.Handler {
	catalogService := service.NewCatalogService(products, log)
	cartService := service.NewCartService(slots, catalogService, slotPrefix, log, cartOpts...)
	reviewService := service.NewReviewService(reviews, catalogService, log)

	controllers := &router.Controllers{
		Cart:    controller.NewCartController(cartService, summary, log),
		Catalog: controller.NewCatalogController(catalogService, reviewService, log),
	}

	mux := http.NewServeMux()
	router.SetupRoutes(mux, controllers)
	return router.WithRequestLogging(mux, log.With(zap.String("component", "http")))
}

// openSlots opens the durable store selected by CART_SLOT_DRIVER
func (a *App) openSlots(ctx context.Context, cfg config.Config, catalogDB *sql.DB, log *zap.Logger) (repository.SlotRepositoryInterface, error) {
	switch cfg.CartSlotDriver {
	case config.SlotDriverMemory:
		log.Warn("⚠️  openSlots: Using in-memory cart slots, carts will not survive a restart")
		return repository.NewMemorySlotRepository(), nil

	case config.SlotDriverSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.CartSQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open cart slot database: %w", err)
		}
		a.closers = append(a.closers, conn.Close)
		if err := db.EnsureSlotSchema(ctx, conn, db.SQLite); err != nil {
			return nil, err
		}
		return repository.NewSlotRepository(conn, db.SQLite, log)

	case config.SlotDriverDynamo:
		client, err := db.OpenDynamo(ctx, cfg.Dynamo)
		if err != nil {
			return nil, err
		}
		return repository.NewDynamoSlotRepository(client, cfg.Dynamo.Table, log), nil

	default:
		if err := db.EnsureSlotSchema(ctx, catalogDB, db.Postgres); err != nil {
			return nil, err
		}
		return repository.NewSlotRepository(catalogDB, db.Postgres, log)
	}
}

// Close releases every connection opened by Initialize
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
