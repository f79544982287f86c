package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"leaguedesk/internal/importer/handler"
	"leaguedesk/internal/importer/reconcile"
	"leaguedesk/internal/importer/service"
	"leaguedesk/internal/platform/config"
	"leaguedesk/internal/platform/httpserver"
	"leaguedesk/internal/platform/logger"
	"leaguedesk/internal/platform/metrics"
	"leaguedesk/internal/platform/middleware"
	"leaguedesk/internal/platform/postgres"
	redisplatform "leaguedesk/internal/platform/redis"
	"leaguedesk/internal/roster/ports"
	"leaguedesk/internal/roster/store/household"
	"leaguedesk/internal/roster/store/person"
	"leaguedesk/internal/roster/store/progress"
	"leaguedesk/internal/roster/store/shift"
	"leaguedesk/internal/roster/store/unmatched"
	"leaguedesk/pkg/platform/audit"
	auditpublisher "leaguedesk/pkg/platform/audit/publisher"
	auditmemory "leaguedesk/pkg/platform/audit/store/memory"
	auditpostgres "leaguedesk/pkg/platform/audit/store/postgres"
	auditworker "leaguedesk/pkg/platform/audit/worker"
)

// main wires stores, the import service, and the background workers, then
// runs everything under one errgroup so a fatal failure in any part tears
// the process down cleanly.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Store selection: postgres when a DSN is configured, in-memory
	// otherwise. The in-memory stores are the same ones the tests use and
	// are fine for local runs.
	var (
		db             *sql.DB
		householdStore ports.HouseholdStore
		personStore    ports.PersonStore
		shiftStore     ports.ShiftStore
		unmatchedStore ports.UnmatchedStore
		auditStore     audit.Store
	)
	if cfg.PostgresDSN != "" {
		var err error
		db, err = postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres unavailable", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		householdStore = household.NewPostgres(db)
		personStore = person.NewPostgres(db)
		shiftStore = shift.NewPostgres(db)
		unmatchedStore = unmatched.NewPostgres(db)
		auditStore = auditpostgres.New(db)
	} else {
		log.Warn("no postgres DSN configured, using in-memory stores")
		householdStore = household.NewInMemory()
		personStore = person.NewInMemory()
		memShifts := shift.NewInMemory()
		shiftStore = memShifts
		unmatchedStore = unmatched.NewInMemory(memShifts)
		auditStore = auditmemory.New()
	}

	var progressStore ports.ProgressStore
	if cfg.RedisAddr != "" {
		client, err := redisplatform.New(ctx, cfg.RedisAddr)
		if err != nil {
			log.Error("redis unavailable", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		progressStore = progress.NewRedis(client, config.ProgressTTL)
	} else {
		progressStore = progress.NewInMemory()
	}

	// Audit pipeline: domain code emits into a channel, the worker drains
	// it into the audit store; Kafka, when configured, gets a copy.
	sink, inbox := auditworker.Inbox(1024)
	worker := auditworker.New(auditStore, inbox, log)
	var publisher audit.Publisher = auditworker.NewChannelPublisher(sink)
	if cfg.KafkaBrokers != "" {
		kafka, err := auditpublisher.NewKafka(cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("kafka unavailable", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
		publisher = auditpublisher.Tee{publisher, kafka}
	}

	promMetrics := metrics.New()

	reconciler, err := reconcile.New(householdStore, personStore, unmatchedStore, shiftStore,
		reconcile.WithLogger(log),
		reconcile.WithPublisher(publisher),
		reconcile.WithMetrics(promMetrics),
	)
	if err != nil {
		log.Error("failed to build reconciler", "error", err)
		os.Exit(1)
	}

	importService, err := service.New(reconciler, householdStore, personStore, unmatchedStore, progressStore,
		service.WithLogger(log),
		service.WithPublisher(publisher),
		service.WithMetrics(promMetrics),
		service.WithChunkSize(cfg.ChunkSize),
		service.WithChunkDelay(cfg.ChunkDelay),
	)
	if err != nil {
		log.Error("failed to build import service", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.Recovery(log),
		middleware.Logger(log),
	)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		handler.New(importService, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting leaguedesk import service", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	group.Go(func() error {
		return worker.Run(groupCtx)
	})

	if cfg.SweepInterval > 0 && cfg.SweepSeasonID != "" {
		group.Go(func() error {
			return runSweeper(groupCtx, log, importService, cfg.SweepSeasonID, cfg.SweepInterval)
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("shutting down with error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
