package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"martpos/internal/config"
	"martpos/internal/infra"
	"martpos/internal/repository"
	"martpos/internal/router"
	"martpos/internal/service"
	"martpos/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Circuit breaker guarding the external barcode allocation sidecar.
	barcodeCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())

	// Async side: a goroutine pool draining Redis job queues (stock alerts)
	// plus the recurring expiry sweep. Wired here at the composition root so
	// they share infrastructure with the API.
	dispatcher := worker.NewDispatcher(rdb)
	workerHandlers := &worker.WorkerHandlers{
		Alerts: worker.NewAlertWorker(rdb),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)

	clock := service.SystemClock()
	batchRepo := repository.NewBatchRepository(db)
	productRepo := repository.NewProductRepository(db)
	ledgerRepo := repository.NewStockLedgerRepository(db)
	sequenceRepo := repository.NewBatchSequenceRepository(db)
	batchSvc := service.NewBatchService(batchRepo, productRepo, ledgerRepo, sequenceRepo, clock, dispatcher)
	sweeper := service.NewExpirySweeper(batchRepo, batchSvc, dispatcher)
	worker.StartExpiryCron(ctx, sweeper, clock, time.Duration(cfg.SweepIntervalMinutes)*time.Minute)

	r := router.New(cfg, db, rdb, barcodeCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("MartPOS inventory backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
