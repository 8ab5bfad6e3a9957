// Package main provides the idle daemon: it loads the save, credits offline
// progress, advances the session on a fixed tick and serves the HTTP and
// websocket API.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Neon681/bmt-idle-sub000/internal/bootstrap"
	"github.com/Neon681/bmt-idle-sub000/internal/gameserver"
	"github.com/Neon681/bmt-idle-sub000/internal/observability"
	"github.com/Neon681/bmt-idle-sub000/internal/pkg/clock"
	"github.com/Neon681/bmt-idle-sub000/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (empty = defaults and IDLE_ env only)")
	flag.Parse()

	ctx := context.Background()

	cfg, err := bootstrap.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "idled")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting idle daemon",
		zap.String("http_addr", cfg.Server.Addr()),
		zap.String("backend", cfg.Storage.Backend),
		zap.String("save", cfg.Storage.SaveName),
	)

	reg, err := bootstrap.LoadCatalog(cfg.Content, logger)
	if err != nil {
		logger.Fatal("loading catalog", zap.Error(err))
	}

	store, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("opening store", zap.Error(err))
	}
	defer store.Close()

	game, err := bootstrap.NewGame(cfg, reg, store, clock.New(), logger)
	if err != nil {
		logger.Fatal("creating game", zap.Error(err))
	}
	if _, err := game.Load(ctx); err != nil {
		logger.Fatal("loading save", zap.Error(err))
	}

	hub := gameserver.NewHub(logger)
	game.Subscribe(hub)

	ticks := gameserver.NewTickManager(cfg.Engine.TickInterval)
	ticks.Register("game", func(time.Time) {
		if _, err := game.Tick(ctx); err != nil {
			logger.Error("tick failed", zap.Error(err))
		}
	})

	tickCtx, stopTicks := context.WithCancel(ctx)
	tickDone := ticks.Start(tickCtx)
	logger.Info("tick driver started", zap.Duration("interval", ticks.Interval()))

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("tick", &server.FuncService{
		StartFn: func() error {
			<-tickDone
			return nil
		},
		StopFn: func() {
			stopTicks()
			<-tickDone
			if err := game.Save(context.Background()); err != nil {
				logger.Error("final save failed", zap.Error(err))
			}
		},
	})
	lifecycle.Add("http", &server.HTTPService{
		Server: &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           gameserver.NewHTTPHandler(game, hub, logger),
			ReadHeaderTimeout: 5 * time.Second,
		},
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          logger,
	})
	eventsDone := make(chan struct{})
	lifecycle.Add("events", &server.FuncService{
		StartFn: func() error {
			<-eventsDone
			return nil
		},
		StopFn: func() {
			hub.Close()
			close(eventsDone)
		},
	})

	logger.Info("idle daemon initialized", zap.Duration("startup", time.Since(start)))

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("idle daemon exited with error", zap.Error(err))
	}
}
