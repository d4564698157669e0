// Command devicesim plays the part of a phone: it answers location permission
// prompts and streams a recorded (or generated) track over NATS.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/mygeo/internal/adapters/location"
	natsadapter "github.com/samirrijal/mygeo/internal/adapters/nats"
	"github.com/samirrijal/mygeo/internal/core/domain"
	"github.com/samirrijal/mygeo/internal/pkg/config"
	"github.com/samirrijal/mygeo/internal/pkg/geospatial"
	"github.com/samirrijal/mygeo/internal/pkg/logging"
)

func main() {
	cfg, err := config.Load("mygeo-devicesim")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	device := flag.String("device", cfg.Location.DeviceID, "device id")
	trackFile := flag.String("track", cfg.Location.TrackFile, "JSON track to replay (generated loop when empty)")
	deny := flag.Bool("deny", cfg.Location.SimulatedPermission() == domain.PermissionDenied, "deny location permission")
	interval := flag.Duration("interval", cfg.Location.ReplayInterval(), "delay between fixes")
	lat := flag.Float64("lat", 48.8566, "center of the generated loop")
	lon := flag.Float64("lon", 2.3522, "center of the generated loop")
	flag.Parse()

	track := generateLoop(*lat, *lon, 60, 36)
	if *trackFile != "" {
		track, err = location.LoadTrack(*trackFile)
		if err != nil {
			log.Fatalf("track: %v", err)
		}
	}

	nc, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer nc.Drain()

	answer := "granted"
	if *deny {
		answer = "denied"
	}
	if _, err := nc.Subscribe(natsadapter.PermissionSubject(*device), func(msg *nats.Msg) {
		slog.Info("permission prompt", "device", *device, "answer", answer)
		if err := msg.Respond([]byte(answer)); err != nil {
			slog.Warn("permission reply", "error", err)
		}
	}); err != nil {
		log.Fatalf("subscribe permission: %v", err)
	}

	if _, err := nc.Subscribe(natsadapter.WatchSubject(*device), func(msg *nats.Msg) {
		var req natsadapter.WatchRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			slog.Warn("malformed watch request", "error", err)
			return
		}
		slog.Info("watch requested", "device", *device,
			"accuracy", req.Accuracy,
			"min_interval_ms", req.MinIntervalMs,
			"min_distance_m", req.MinDistanceM,
		)
	}); err != nil {
		log.Fatalf("subscribe watch: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-quit
		slog.Info("shutting down device simulator", "signal", sig.String())
		cancel()
	}()

	slog.Info("device simulator started", "device", *device, "fixes", len(track), "interval", interval.String())
	stream(ctx, nc, natsadapter.PositionSubject(*device), track, *interval)
}

// stream publishes the track in a loop, one fix per interval.
func stream(ctx context.Context, nc *nats.Conn, subject string, track []location.Fix, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; ; i = (i + 1) % len(track) {
		fix := track[i]
		fix.Time = time.Now().UTC()
		data, err := json.Marshal(fix)
		if err == nil {
			err = nc.Publish(subject, data)
		}
		if err != nil {
			slog.Warn("publish fix", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// generateLoop walks a circle of radiusM meters around a center.
func generateLoop(lat, lon, radiusM float64, steps int) []location.Fix {
	fixes := make([]location.Fix, steps)
	for i := range fixes {
		bearing := 360 * float64(i) / float64(steps)
		acc := 3 + 2*math.Sin(bearing*math.Pi/180)
		fixes[i].Lat, fixes[i].Lon = geospatial.Destination(lat, lon, bearing, radiusM)
		fixes[i].Accuracy = &acc
	}
	return fixes
}
