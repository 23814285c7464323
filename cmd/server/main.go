package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"certus/internal/assessment"
	assessmenthandler "certus/internal/assessment/handler"
	assessmentpg "certus/internal/assessment/store/postgres"
	"certus/internal/catalog"
	cataloghandler "certus/internal/catalog/handler"
	"certus/internal/decision"
	decisionhandler "certus/internal/decision/handler"
	decisionpg "certus/internal/decision/store/postgres"
	httpapi "certus/internal/http"
	"certus/internal/platform/config"
	"certus/internal/platform/httpserver"
	"certus/internal/platform/logger"
	"certus/internal/platform/metrics"
	"certus/internal/platform/postgres"
	"certus/internal/platform/redis"
	"certus/internal/profile"
	profilehandler "certus/internal/profile/handler"
	profilepg "certus/internal/profile/store/postgres"
	"certus/pkg/platform/audit/relay"
	auditpg "certus/pkg/platform/audit/store/postgres"
	"certus/pkg/platform/middleware/auth"
)

// main wires dependencies bottom-up and supervises the HTTP server alongside
// the audit relay. Business logic lives in the internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defs, err := catalog.Load(cfg.CataloguePath)
	if err != nil {
		return err
	}
	log.Info("criteria catalogue loaded", "version", defs.Version, "pillars", len(defs.Pillars))

	db, err := postgres.Open(cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return err
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	m := metrics.New()
	auditStore := auditpg.New(db)
	cycleStore := profilepg.New(db)
	scoreStore := assessmentpg.New(db)
	decisionStore := decisionpg.New(db)
	cache := assessment.NewCache(redisClient, cfg.Redis.CacheTTL)

	assessmentSvc, err := assessment.New(defs, cycleStore, scoreStore, cache, auditStore, m, log)
	if err != nil {
		return err
	}
	profileSvc, err := profile.New(defs, db, cycleStore, scoreStore, decisionStore, auditStore, m, log)
	if err != nil {
		return err
	}
	decisionSvc, err := decision.New(defs, db, cycleStore, scoreStore, decisionStore, auditStore, m, log)
	if err != nil {
		return err
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Catalog:        cataloghandler.New(defs, log),
		Profile:        profilehandler.New(profileSvc, log),
		Assessment:     assessmenthandler.New(assessmentSvc, log),
		Decision:       decisionhandler.New(decisionSvc, log),
		TokenValidator: auth.NewHMACValidator(cfg.ReviewerJWTKey),
		Logger:         log,
		Health: func() error {
			return db.Ping()
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting certus", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if len(cfg.Kafka.Brokers) > 0 {
		auditRelay, err := relay.New(db, cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, cfg.Kafka.RelayInterval, log)
		if err != nil {
			return err
		}
		defer auditRelay.Close()
		g.Go(func() error {
			auditRelay.Run(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
