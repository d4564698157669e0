package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/mygeo/internal/adapters/http"
	"github.com/samirrijal/mygeo/internal/adapters/location"
	"github.com/samirrijal/mygeo/internal/adapters/memory"
	natsadapter "github.com/samirrijal/mygeo/internal/adapters/nats"
	"github.com/samirrijal/mygeo/internal/adapters/valkey"
	"github.com/samirrijal/mygeo/internal/core/domain"
	"github.com/samirrijal/mygeo/internal/core/ports"
	"github.com/samirrijal/mygeo/internal/core/usecases"
	"github.com/samirrijal/mygeo/internal/pkg/config"
	"github.com/samirrijal/mygeo/internal/pkg/logging"
	"github.com/samirrijal/mygeo/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("mygeo-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// NATS: device stream, map events and the WebSocket relay share one connection.
	var nc *nats.Conn
	if cfg.Location.Source == "nats" || cfg.NATS.URL != "" {
		nc, err = natsadapter.RawConn(cfg.NATS.URL)
		if err != nil {
			if cfg.Location.Source == "nats" {
				log.Fatalf("nats: %v", err)
			}
			slog.Warn("nats unavailable, map events disabled", "error", err)
		}
	}

	var publisher ports.EventPublisher
	if nc != nil {
		pub := natsadapter.NewPublisherWithConn(nc)
		defer pub.Close()
		publisher = pub
	}

	// Cache
	var cache *valkey.Cache
	if cfg.Valkey.Enabled {
		cache, err = valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	// Location source
	var source ports.LocationSource
	switch cfg.Location.Source {
	case "simulated":
		sim := location.NewSimulated(cfg.Location.SimulatedPermission())
		if cfg.Location.TrackFile != "" {
			track, err := location.LoadTrack(cfg.Location.TrackFile)
			if err != nil {
				log.Fatalf("track: %v", err)
			}
			go sim.Replay(ctx, track, cfg.Location.ReplayInterval())
		}
		source = sim
	default:
		source = natsadapter.NewLocationSource(nc, cfg.Location.DeviceID, cfg.Location.PermissionTimeout())
	}
	slog.Info("location source", "source", cfg.Location.Source, "device", cfg.Location.DeviceID)

	// Use cases
	trackerOpts := []usecases.TrackerOption{
		usecases.WithWatchOptions(cfg.Location.WatchOptions()),
		usecases.WithSpan(cfg.Map.Span()),
	}
	var pointOpts []usecases.PointOption
	if publisher != nil {
		trackerOpts = append(trackerOpts, usecases.WithPublisher(publisher))
	}
	if cache != nil {
		host, _ := os.Hostname()
		pointOpts = append(pointOpts, usecases.WithPointCache(cache, host))
	}

	tracker := usecases.NewLocationTracker(source, trackerOpts...)
	points := usecases.NewPointService(memory.NewPointRepo(), publisher, pointOpts...)
	mapSvc := usecases.NewMapService(tracker, points, cfg.Map.DefaultAccuracyRadius)

	if cfg.Location.AutoStart {
		go func() {
			if err := tracker.Start(ctx); err != nil {
				if errors.Is(err, domain.ErrPermissionDenied) {
					slog.Warn("location permission denied, map stays unavailable")
					return
				}
				slog.Error("start location tracking", "error", err)
			}
		}()
	}

	deps := &http.Dependencies{
		Map:       mapSvc,
		Tracker:   tracker,
		Points:    points,
		NATS:      nc,
		Cache:     cache,
		RateLimit: cfg.Server.RateLimit,
	}
	if cache != nil {
		deps.LimiterStorage = valkey.NewStorage(cache, "mygeo:limiter:")
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    64 * 1024,
		AppName:      "mygeo API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, http://localhost:8081",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	tracker.Stop()
	cancel()
	slog.Info("server stopped")
}
