package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	badgerdb "github.com/dgraph-io/badger/v4"
	goredis "github.com/redis/go-redis/v9"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	emailclient "github.com/Apurer/gift-registry/internal/clients/http/email"
	cartbadger "github.com/Apurer/gift-registry/internal/domains/cart/adapters/badger"
	cartmemory "github.com/Apurer/gift-registry/internal/domains/cart/adapters/memory"
	cartredis "github.com/Apurer/gift-registry/internal/domains/cart/adapters/redis"
	cartports "github.com/Apurer/gift-registry/internal/domains/cart/ports"
	catalogmemory "github.com/Apurer/gift-registry/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/gift-registry/internal/domains/catalog/adapters/persistence/postgres"
	catalogseed "github.com/Apurer/gift-registry/internal/domains/catalog/adapters/seed"
	catalogapp "github.com/Apurer/gift-registry/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/gift-registry/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/gift-registry/internal/domains/catalog/ports"
	checkoutemail "github.com/Apurer/gift-registry/internal/domains/checkout/adapters/external/email"
	checkoutapp "github.com/Apurer/gift-registry/internal/domains/checkout/application"
	checkoutports "github.com/Apurer/gift-registry/internal/domains/checkout/ports"
	platformbadger "github.com/Apurer/gift-registry/internal/platform/badger"
	platformobservability "github.com/Apurer/gift-registry/internal/platform/observability"
	platformredis "github.com/Apurer/gift-registry/internal/platform/redis"
)

// CatalogStore is a catalog backend that also arbitrates inventory.
type CatalogStore interface {
	catalogports.Repository
	catalogports.InventoryStore
}

// BuildCatalogStore returns the Postgres catalog when db is set, otherwise an in-memory catalog
// seeded from cfg.CatalogSeedFile.
func BuildCatalogStore(cfg Config, db *gorm.DB, logger *slog.Logger) (CatalogStore, error) {
	if db != nil {
		logger.Info("catalog configured with postgres")
		return catalogpostgres.NewRepository(db), nil
	}
	var items []catalogdomain.Item
	if cfg.CatalogSeedFile != "" {
		loaded, err := catalogseed.LoadFile(cfg.CatalogSeedFile)
		if err != nil {
			return nil, fmt.Errorf("load catalog seed: %w", err)
		}
		items = loaded
		logger.Info("in-memory catalog seeded", slog.String("file", cfg.CatalogSeedFile), slog.Int("items", len(items)))
	} else {
		logger.Warn("CATALOG_SEED_FILE not set, in-memory catalog starts empty")
	}
	return catalogmemory.NewRepository(items), nil
}

// BuildCartStore opens the configured cart backend. The returned cleanup closes it.
func BuildCartStore(ctx context.Context, cfg Config, logger *slog.Logger) (cartports.Store, func(), error) {
	switch cfg.CartStore {
	case CartStoreBadger:
		db, err := platformbadger.Open(cfg.BadgerPath, logger)
		if err != nil {
			return nil, func() {}, fmt.Errorf("open badger cart store: %w", err)
		}
		logger.Info("cart store configured with badger", slog.String("path", cfg.BadgerPath))
		return cartbadger.NewStore(db, cfg.CartTTL), closeBadger(db, logger), nil
	case CartStoreRedis:
		rdb, err := platformredis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, func() {}, fmt.Errorf("connect redis cart store: %w", err)
		}
		logger.Info("cart store configured with redis")
		return cartredis.NewStore(rdb, cfg.CartTTL), closeRedis(rdb, logger), nil
	default:
		logger.Info("cart store configured in memory")
		return cartmemory.NewStore(cartmemory.WithTTL(cfg.CartTTL)), func() {}, nil
	}
}

func closeBadger(db *badgerdb.DB, logger *slog.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close badger", slog.String("error", err.Error()))
		}
	}
}

func closeRedis(rdb *goredis.Client, logger *slog.Logger) func() {
	return func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("failed to close redis", slog.String("error", err.Error()))
		}
	}
}

// BuildNotifier sends through the email provider when configured, otherwise logs.
func BuildNotifier(cfg Config, logger *slog.Logger) (checkoutports.Notifier, error) {
	if !cfg.EmailEnabled() {
		logger.Warn("RESEND_API_KEY not set, order emails will only be logged")
		return checkoutemail.NewLogNotifier(logger), nil
	}
	sender, err := emailclient.NewClient(cfg.ResendBaseURL, cfg.ResendAPIKey, nil)
	if err != nil {
		return nil, err
	}
	return checkoutemail.NewNotifier(sender, cfg.FromEmail, cfg.AdminEmail, checkoutemail.WithLogger(logger))
}

// BuildFulfiller wires the inventory incrementer and the notification hook.
func BuildFulfiller(ctx context.Context, cfg Config, store catalogports.InventoryStore, logger *slog.Logger) (*checkoutapp.Fulfiller, catalogports.Incrementer, error) {
	incrementer := catalogapp.SelectIncrementer(ctx, store, cfg.InventoryAllowFallback, logger)
	notifier, err := BuildNotifier(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	fulfiller := checkoutapp.NewFulfiller(
		incrementer,
		checkoutapp.WithFulfillerLogger(logger),
		checkoutapp.WithHooks(checkoutapp.NewNotificationHook(notifier)),
	)
	return fulfiller, incrementer, nil
}

// ConnectTemporal dials Temporal with tracing and structured logging.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(tracerName)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
