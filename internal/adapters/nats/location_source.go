package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/mygeo/internal/adapters/location"
	"github.com/samirrijal/mygeo/internal/core/domain"
	"github.com/samirrijal/mygeo/internal/core/ports"
)

// PermissionSubject is where a device answers foreground permission prompts.
func PermissionSubject(deviceID string) string {
	return "mygeo.device." + deviceID + ".permission"
}

// PositionSubject is where a device streams its fixes.
func PositionSubject(deviceID string) string {
	return "mygeo.device." + deviceID + ".position"
}

// WatchSubject carries the requested sampling options to the device.
func WatchSubject(deviceID string) string {
	return "mygeo.device." + deviceID + ".watch"
}

// WatchRequest is sent to the device alongside the permission prompt so it can
// configure its GPS sampling.
type WatchRequest struct {
	Accuracy      string  `json:"accuracy"`
	MinIntervalMs int64   `json:"min_interval_ms"`
	MinDistanceM  float64 `json:"min_distance_m"`
}

// LocationSource implements ports.LocationSource for a device reachable over NATS.
type LocationSource struct {
	conn     *nats.Conn
	deviceID string
	timeout  time.Duration
}

// NewLocationSource creates a source bound to one device.
func NewLocationSource(conn *nats.Conn, deviceID string, timeout time.Duration) *LocationSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LocationSource{conn: conn, deviceID: deviceID, timeout: timeout}
}

// RequestPermission asks the device for foreground location access.
// The device replies "granted" or "denied"; anything else is an error.
func (s *LocationSource) RequestPermission(ctx context.Context) (domain.Permission, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	msg, err := s.conn.RequestWithContext(ctx, PermissionSubject(s.deviceID), nil)
	if err != nil {
		return domain.PermissionDenied, fmt.Errorf("permission request to %s: %w", s.deviceID, err)
	}
	return parsePermission(msg.Data)
}

// parsePermission reads a device reply. Case and surrounding whitespace are
// ignored; any other answer is a platform error, not a denial.
func parsePermission(reply []byte) (domain.Permission, error) {
	switch strings.ToLower(strings.TrimSpace(string(reply))) {
	case "granted":
		return domain.PermissionGranted, nil
	case "denied":
		return domain.PermissionDenied, nil
	default:
		return domain.PermissionDenied, fmt.Errorf("unexpected permission reply %q", reply)
	}
}

// Watch subscribes to the device's position subject.
func (s *LocationSource) Watch(ctx context.Context, opts domain.WatchOptions) (ports.Subscription, error) {
	var sub *nats.Subscription
	stream := location.NewStream(opts, func() {
		if sub != nil {
			_ = sub.Unsubscribe()
		}
	})

	sub, err := s.conn.Subscribe(PositionSubject(s.deviceID), func(msg *nats.Msg) {
		var fix location.Fix
		if err := json.Unmarshal(msg.Data, &fix); err != nil {
			slog.Debug("discarding malformed fix", "device", s.deviceID, "error", err)
			return
		}
		stream.Deliver(fix.Sample(time.Now()))
	})
	if err != nil {
		stream.Remove()
		return nil, fmt.Errorf("subscribe %s: %w", PositionSubject(s.deviceID), err)
	}

	if err := s.announce(opts); err != nil {
		slog.Warn("announce watch options", "device", s.deviceID, "error", err)
	}
	return stream, nil
}

func (s *LocationSource) announce(opts domain.WatchOptions) error {
	data, err := json.Marshal(WatchRequest{
		Accuracy:      opts.Accuracy.String(),
		MinIntervalMs: opts.MinInterval.Milliseconds(),
		MinDistanceM:  opts.MinDistanceMeters,
	})
	if err != nil {
		return err
	}
	return s.conn.Publish(WatchSubject(s.deviceID), data)
}
