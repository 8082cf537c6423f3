package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	registryserver "github.com/Apurer/gift-registry/go"

	cartapp "github.com/Apurer/gift-registry/internal/domains/cart/application"
	catalogobs "github.com/Apurer/gift-registry/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/Apurer/gift-registry/internal/domains/catalog/application"
	checkoutmemory "github.com/Apurer/gift-registry/internal/domains/checkout/adapters/memory"
	checkoutobs "github.com/Apurer/gift-registry/internal/domains/checkout/adapters/observability"
	checkoutpostgres "github.com/Apurer/gift-registry/internal/domains/checkout/adapters/persistence/postgres"
	checkoutworkflows "github.com/Apurer/gift-registry/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/Apurer/gift-registry/internal/domains/checkout/application"
	checkoutdomain "github.com/Apurer/gift-registry/internal/domains/checkout/domain"
	checkoutports "github.com/Apurer/gift-registry/internal/domains/checkout/ports"
	platformobservability "github.com/Apurer/gift-registry/internal/platform/observability"
	platformpostgres "github.com/Apurer/gift-registry/internal/platform/postgres"
)

// Run boots the gift registry HTTP API with observability, stores, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "gift-registry-api"
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName,
		platformobservability.WithLogLevel(cfg.LogLevel),
		platformobservability.WithEnvironment(cfg.Environment),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	defer cleanupDB()

	catalogStore, err := BuildCatalogStore(cfg, db, logger)
	if err != nil {
		return err
	}
	catalogService := catalogobs.New(
		catalogapp.NewService(catalogStore, catalogapp.WithImageBaseURL(cfg.ImageBaseURL)),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	if err := catalogService.Refresh(ctx); err != nil {
		logger.Warn("initial catalog load failed, catalog reads answer 503 until a refresh succeeds", slog.String("error", err.Error()))
	}

	cartStore, cleanupCart, err := BuildCartStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanupCart()
	cartService := cartapp.NewService(cartStore, catalogService)

	var orders checkoutports.OrderRepository = checkoutmemory.NewRepository()
	if db != nil {
		orders = checkoutpostgres.NewRepository(db)
	}

	fulfiller, incrementer, err := BuildFulfiller(ctx, cfg, catalogStore, logger)
	if err != nil {
		return err
	}
	var fulfillment checkoutports.FulfillmentOrchestrator = checkoutworkflows.NewInlineFulfillment(fulfiller)
	switch {
	case db == nil:
		logger.Warn("fulfillment runs inline: the in-memory catalog is not shared with a Temporal worker")
	default:
		temporalClient, err := ConnectTemporal(cfg, instruments, "temporal-client")
		if err != nil {
			logger.Warn("Temporal workflows unavailable, running fulfillment inline", slog.String("error", err.Error()))
			break
		}
		defer temporalClient.Close()
		fulfillment = checkoutworkflows.NewTemporalFulfillment(temporalClient,
			checkoutworkflows.WithFallback(fulfillment),
			checkoutworkflows.WithLogger(logger),
		)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	checkoutService := checkoutobs.New(
		checkoutapp.NewService(orders, catalogService, cartService, fulfillment,
			checkoutapp.WithLogger(logger),
			checkoutapp.WithSessionCodes(checkoutdomain.NewSessionCodeGenerator(
				checkoutdomain.WithCodeLocation(cfg.SessionCodeLocation),
			)),
		),
		checkoutobs.WithLogger(logger),
		checkoutobs.WithTracer(instruments.Tracer("internal.checkout.application")),
		checkoutobs.WithMeter(instruments.Meter("internal.checkout.application")),
	)

	handlers := registryserver.ApiHandleFunctions{
		CatalogAPI:  registryserver.NewCatalogAPI(catalogService),
		CartAPI:     registryserver.NewCartAPI(cartService),
		CheckoutAPI: registryserver.NewCheckoutAPI(checkoutService),
		HealthAPI:   registryserver.NewHealthAPI(catalogService, incrementer.Strategy()),
	}
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), otelgin.Middleware(serviceName))
	router := registryserver.NewRouterWithGinEngine(engine, handlers)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("gift registry API listening", slog.String("addr", server.Addr), slog.String("inventory.strategy", incrementer.Strategy()))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("gift registry API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down gift registry API")
		return server.Shutdown(shutdownCtx)
	}
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
