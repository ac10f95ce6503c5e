// The hub binary wires the integration hub together: connector registry,
// quote engine, coverage analyzer, event bus and the HTTP surface. All
// business logic lives in the internal packages; main only assembles and
// supervises lifecycles.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/cache"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector/aggregator"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector/carrier"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector/pension"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector/vehicle"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/consent"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/coverage"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/eventbus"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/orchestrator"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/platform/config"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/platform/httpserver"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/platform/logger"
	httpmetrics "github.com/daviderez4/selai-admin-crm-sub006/internal/platform/metrics"
	platformredis "github.com/daviderez4/selai-admin-crm-sub006/internal/platform/redis"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/quote"
	quotestore "github.com/daviderez4/selai-admin-crm-sub006/internal/quote/store"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/registry"
	registrymetrics "github.com/daviderez4/selai-admin-crm-sub006/internal/registry/metrics"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/snapshot"
	httptransport "github.com/daviderez4/selai-admin-crm-sub006/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("hub exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ttls := cache.TTLPolicy{
		cache.ClassQuotes:    cfg.Cache.Quotes,
		cache.ClassTokens:    cfg.Cache.Tokens,
		cache.ClassSnapshots: cfg.Cache.Snapshots,
		cache.ClassSessions:  cfg.Cache.Sessions,
	}
	var hubCache cache.Cache
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		hubCache = cache.NewRedis(redisClient.Client, ttls, cache.WithLogger(log))
		log.Info("using redis cache")
	} else {
		hubCache = cache.NewMemory(ttls)
		log.Info("using in-memory cache")
	}

	busOpts := []eventbus.Option{eventbus.WithLogger(log)}
	var bridge *eventbus.KafkaBridge
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := kgo.NewClient(
			kgo.SeedBrokers(cfg.Kafka.Brokers...),
			kgo.ConsumerGroup(cfg.Kafka.GroupID),
			kgo.ConsumeTopics(eventbus.BrokerTopics(eventbus.AllTopics()...)...),
		)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		bridge = eventbus.NewKafkaBridge(kafkaClient, eventbus.WithBridgeLogger(log))
		busOpts = append(busOpts, eventbus.WithTap(bridge.Tap()))
	}
	bus := eventbus.New(hubCache, busOpts...)

	consents := consent.NewService(consent.NewMemoryStore(),
		consent.WithLogger(log),
		consent.WithEvents(bus),
	)

	reg := registry.New(registry.Config{
		InitTimeout:        cfg.Registry.InitTimeout,
		HealthInterval:     cfg.Registry.HealthInterval,
		HealthTimeout:      cfg.Registry.HealthTimeout,
		DegradedThreshold:  cfg.Registry.DegradedThreshold,
		UnhealthyThreshold: cfg.Registry.UnhealthyThreshold,
	},
		registry.WithLogger(log),
		registry.WithEvents(bus),
		registry.WithMetrics(registrymetrics.New()),
	)
	if err := registerConnectors(cfg.ConnectorsFile, reg, consents); err != nil {
		return err
	}
	for _, report := range reg.InitializeAll(ctx) {
		if report.Err != nil {
			log.Warn("connector failed to initialize", "connector", report.Connector, "error", report.Err)
		}
	}
	go func() {
		if err := reg.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("registry health loop stopped", "error", err)
		}
	}()

	var history quotestore.HistoryStore
	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}
		history = quotestore.NewPostgresHistory(db)
		log.Info("quote history persisted to postgres")
	} else {
		history = quotestore.NewMemoryHistory()
	}
	bus.Subscribe(quote.TopicQuoteCompared, quote.HistoryConsumerName, quote.RecordHistory(history, log))

	engine := quote.NewEngine(reg, hubCache, quote.Config{
		PerCallTimeout: cfg.Quote.PerCallTimeout,
		HorizonYears:   cfg.Quote.HorizonYears,
		Weights: quote.CompositeWeights{
			Price:    cfg.Quote.PriceWeight,
			Coverage: cfg.Quote.CoverageWeight,
		},
	},
		quote.WithLogger(log),
		quote.WithEvents(bus),
		quote.WithMetrics(quote.NewMetrics()),
	)

	analyzer := coverage.NewAnalyzer(coverage.WithLogger(log), coverage.WithEvents(bus))

	snapshots := snapshot.NewBuilder(reg,
		snapshot.WithLogger(log),
		snapshot.WithConsents(consents),
		snapshot.WithPerCallTimeout(cfg.Quote.PerCallTimeout),
	)

	workflows := orchestrator.New(bus, orchestrator.WithLogger(log))
	workflows.Register(orchestrator.NewConsentRevokedWorkflow(hubCache))
	workflows.Register(orchestrator.NewCustomerDataSyncWorkflow(snapshots, hubCache, bus))

	if bridge != nil {
		if err := bridge.EnsureTopics(ctx, eventbus.AllTopics()...); err != nil {
			return fmt.Errorf("provision kafka topics: %w", err)
		}
		go func() {
			if err := bridge.Run(ctx, bus); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("kafka bridge stopped", "error", err)
			}
		}()
	}

	handler := httptransport.NewHandler(engine, analyzer, reg,
		httptransport.WithLogger(log),
		httptransport.WithMetrics(httpmetrics.New()),
	)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler))

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	log.Info("insurance hub listening", "addr", cfg.Addr)

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown incomplete", "error", err)
	}
	bus.Close()
	if bridge != nil {
		bridge.Close()
	}
	return nil
}

// registerConnectors builds and registers every declared connector. The
// declarations carry endpoints and auth methods only; decrypted secrets
// arrive through the environment and are handed straight to Initialize.
func registerConnectors(path string, reg *registry.Registry, consents *consent.Service) error {
	specs, err := config.LoadConnectors(path)
	if err != nil {
		return err
	}
	for _, spec := range specs {
		id := domain.ConnectorID(spec.ID)
		var conn connector.Connector
		switch spec.Kind {
		case "vehicle":
			conn = vehicle.New(id)
		case "pension":
			conn = pension.New(id, consents)
		case "carrier":
			conn = carrier.New(id, domain.CarrierID(spec.Carrier))
		case "aggregator":
			conn = aggregator.New(id)
		default:
			return fmt.Errorf("connector %s: unknown kind %q", spec.ID, spec.Kind)
		}
		creds := connector.Config{
			BaseURL:     spec.BaseURL,
			Auth:        connector.AuthMethod(spec.Auth),
			Secret:      spec.Secret(),
			CallTimeout: spec.CallTimeout,
		}
		if err := reg.Register(conn, creds); err != nil {
			return fmt.Errorf("register connector %s: %w", spec.ID, err)
		}
	}
	return nil
}
