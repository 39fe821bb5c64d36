package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"answer-pipeline/internal/bank"
	"answer-pipeline/internal/common/cache"
	"answer-pipeline/internal/common/config"
	"answer-pipeline/internal/common/logger"
	"answer-pipeline/internal/common/observability"
	"answer-pipeline/internal/generator"
	"answer-pipeline/internal/pipeline"
	"answer-pipeline/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting answer pipeline server", map[string]interface{}{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	gen := generator.NewHTTP(&cfg.Generator, log)

	opts := []pipeline.Option{
		pipeline.WithMaxRepairs(cfg.Pipeline.MaxRepairs),
		pipeline.WithObservability(obs),
	}

	var normCache *cache.NormalizationCache
	if cfg.Cache.Enabled {
		normCache = cache.New(cfg.Cache)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := normCache.Ping(ctx); err != nil {
			// The cache is an accelerator; run without it when redis is down.
			log.WithError(err).Warn("cache unreachable, continuing without it", nil)
			normCache = nil
		}
		cancel()
		if normCache != nil {
			defer normCache.Close()
			opts = append(opts, pipeline.WithCache(normCache))
			log.Info("normalization cache enabled", map[string]interface{}{
				"address": cfg.Cache.Address,
			})
		}
	}

	var sink server.Bank
	if cfg.Bank.Enabled {
		pg, err := bank.NewPostgres(cfg.Bank, log)
		if err != nil {
			log.WithError(err).Error("failed to open banking sink", nil)
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := pg.Ping(ctx); err != nil {
			log.WithError(err).Error("banking sink unreachable", nil)
			cancel()
			os.Exit(1)
		}
		cancel()
		defer pg.Close()
		sink = pg
		log.Info("banking sink enabled", map[string]interface{}{
			"host":     cfg.Bank.Host,
			"database": cfg.Bank.Database,
		})
	}

	pipe := pipeline.New(gen, log, opts...)
	srv := server.New(pipe, sink, obs, log)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srv.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", map[string]interface{}{"address": cfg.Server.Address})
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", map[string]interface{}{"signal": sig.String()})
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("server failed", nil)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed", nil)
	}
	log.Info("server stopped", nil)
}
