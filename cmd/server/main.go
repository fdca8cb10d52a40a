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

	_ "github.com/lib/pq"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"clearance/internal/audit"
	exportservice "clearance/internal/export/service"
	exportstore "clearance/internal/export/store"
	"clearance/internal/platform/config"
	"clearance/internal/platform/logger"
	"clearance/internal/platform/ops"
	platformredis "clearance/internal/platform/redis"
	"clearance/internal/shipment/metrics"
	"clearance/internal/shipment/service"
	shipmentstore "clearance/internal/shipment/store"
	"clearance/pkg/platform/circuit"
)

const shutdownTimeout = 10 * time.Second

// main wires config, persistence, the audit stream and the session
// registries, then runs the ops server and the free-days sweep until a
// signal arrives.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	m := metrics.New()
	checks := []ops.Option{ops.WithLogger(log)}

	imports, exports, closeStores, err := openRepositories(ctx, cfg, log, &checks)
	if err != nil {
		return err
	}
	defer closeStores()

	publisher, closeAudit, err := openAudit(ctx, cfg, log, &checks)
	if err != nil {
		return err
	}
	defer closeAudit()

	sessions, err := service.NewSessions(imports, log,
		service.WithMetrics(m),
		service.WithAuditPublisher(publisher),
		service.WithDebounce(cfg.Lifecycle.UpdateDebounce),
	)
	if err != nil {
		return err
	}
	defer sessions.CloseAll()

	files, err := exportservice.NewFiles(exports, log,
		exportservice.WithMetrics(m),
		exportservice.WithAuditPublisher(publisher),
		exportservice.WithDebounce(cfg.Lifecycle.UpdateDebounce),
	)
	if err != nil {
		return err
	}
	defer files.CloseAll()

	sweeper, err := service.NewSweeper(sessions, cfg.Lifecycle.SweepInterval, log)
	if err != nil {
		return err
	}

	srv := ops.NewServer(cfg.Server.Addr, ops.New(checks...).Router())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting clearance ops server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ops server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return sweeper.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openRepositories picks Postgres when DATABASE_URL is set, with Redis in
// front when REDIS_URL is set, and memory otherwise.
func openRepositories(ctx context.Context, cfg config.Config, log *slog.Logger, checks *[]ops.Option) (*shipmentstore.Repository, *exportstore.Repository, func(), error) {
	if cfg.Database.URL == "" {
		log.Warn("DATABASE_URL not set, keeping aggregates in memory")
		return shipmentstore.NewMemory(), exportstore.NewMemory(), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("ping database: %w", err)
	}
	*checks = append(*checks, ops.WithCheck("postgres", db.PingContext))

	imports, _, err := shipmentstore.NewPostgres(ctx, db)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	exports, err := exportstore.NewPostgres(ctx, db)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}

	rc, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	if rc == nil {
		return imports, exports, func() { db.Close() }, nil
	}
	closeAll := func() {
		rc.Close()
		db.Close()
	}
	*checks = append(*checks, ops.WithCheck("redis", rc.Health))

	if imports, err = imports.WithCache(rc, cfg.Redis.SnapshotTTL); err != nil {
		closeAll()
		return nil, nil, nil, err
	}
	if exports, err = exports.WithCache(rc, cfg.Redis.SnapshotTTL); err != nil {
		closeAll()
		return nil, nil, nil, err
	}
	return imports, exports, closeAll, nil
}

// openAudit streams lifecycle events to Kafka when brokers are configured.
func openAudit(ctx context.Context, cfg config.Config, log *slog.Logger, checks *[]ops.Option) (*audit.Publisher, func(), error) {
	var sink audit.Sink = audit.NewMemorySink()
	cleanup := func() {}

	if len(cfg.Kafka.Brokers) > 0 {
		client, err := kgo.NewClient(kgo.SeedBrokers(cfg.Kafka.Brokers...))
		if err != nil {
			return nil, nil, fmt.Errorf("kafka client: %w", err)
		}
		if err := audit.EnsureTopic(ctx, kadm.NewClient(client), cfg.Kafka.Topic, 3, 1); err != nil {
			client.Close()
			return nil, nil, err
		}
		kafkaSink, err := audit.NewKafkaSink(client, cfg.Kafka.Topic)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		fallback, err := audit.NewFallbackSink(kafkaSink, sink, circuit.New("kafka-audit"), log)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		*checks = append(*checks, ops.WithCheck("kafka", client.Ping))
		sink = fallback
		cleanup = client.Close
	} else {
		log.Warn("KAFKA_BROKERS not set, keeping audit events in memory")
	}

	publisher, err := audit.NewPublisher(sink, audit.WithLogger(log), audit.WithBuffer(256))
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return publisher, func() {
		publisher.Close()
		cleanup()
	}, nil
}
