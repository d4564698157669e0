package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/samirrijal/mygeo/internal/core/domain"
	"github.com/samirrijal/mygeo/internal/core/ports"
	"github.com/samirrijal/mygeo/internal/pkg/metrics"
	"github.com/samirrijal/mygeo/internal/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var trackerStatuses = []string{
	string(domain.TrackerIdle),
	string(domain.TrackerWaiting),
	string(domain.TrackerTracking),
	string(domain.TrackerUnavailable),
	string(domain.TrackerStopped),
}

// LocationTracker turns the platform position stream into the current sample
// and a viewport centered on it.
type LocationTracker struct {
	source    ports.LocationSource
	publisher ports.EventPublisher
	opts      domain.WatchOptions
	span      domain.Span

	mu      sync.Mutex
	state   domain.TrackerState
	denied  bool
	pending *startCall // open permission prompt
	rearm   bool       // a Start arrived after Stop while pending was open
	gen     uint64     // bumped by Stop; samples from older generations are dropped
	sub     ports.Subscription
	quit    chan struct{}
	done    chan struct{}
}

// TrackerOption customises a LocationTracker.
type TrackerOption func(*LocationTracker)

// WithWatchOptions overrides the subscription thresholds.
func WithWatchOptions(opts domain.WatchOptions) TrackerOption {
	return func(t *LocationTracker) { t.opts = opts }
}

// WithSpan overrides the viewport span.
func WithSpan(span domain.Span) TrackerOption {
	return func(t *LocationTracker) { t.span = span }
}

// WithPublisher broadcasts every state change.
func WithPublisher(p ports.EventPublisher) TrackerOption {
	return func(t *LocationTracker) { t.publisher = p }
}

// NewLocationTracker creates an idle tracker.
func NewLocationTracker(source ports.LocationSource, opts ...TrackerOption) *LocationTracker {
	t := &LocationTracker{
		source: source,
		opts:   domain.DefaultWatchOptions(),
		span:   domain.SpanFor(domain.DefaultLatitudeDelta, 1),
		state:  domain.TrackerState{Status: domain.TrackerIdle},
	}
	for _, o := range opts {
		o(t)
	}
	metrics.SetTrackerStatus(string(domain.TrackerIdle), trackerStatuses...)
	return t
}

// Start asks for permission once and, if granted, subscribes to position updates.
// A denial is terminal: later calls return ErrPermissionDenied without prompting.
// Platform failures leave the tracker waiting and are returned for logging.
// A Start issued while a prompt is open waits for that prompt's outcome.
func (t *LocationTracker) Start(ctx context.Context) error {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanTrackerStart)
	defer span.End()

	t.mu.Lock()
	if t.denied {
		t.mu.Unlock()
		return domain.ErrPermissionDenied
	}
	if t.sub != nil {
		t.mu.Unlock()
		return nil
	}
	if call := t.pending; call != nil {
		if call.gen != t.gen {
			// stopped since the prompt opened: its grant now serves this call
			t.rearm = true
			t.setStatusLocked(domain.TrackerWaiting, domain.MessageWaiting)
		}
		t.mu.Unlock()
		select {
		case <-call.done:
			return call.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	call := &startCall{gen: t.gen, done: make(chan struct{})}
	t.pending = call
	t.setStatusLocked(domain.TrackerWaiting, domain.MessageWaiting)
	t.mu.Unlock()

	err := t.start(ctx, span, call)

	t.mu.Lock()
	t.pending = nil
	t.rearm = false
	t.mu.Unlock()
	call.err = err
	close(call.done)
	return err
}

type startCall struct {
	gen  uint64
	done chan struct{}
	err  error
}

// currentLocked reports whether the prompt opened at call.gen is still wanted,
// adopting the latest generation when a Start arrived after a Stop.
func (t *LocationTracker) currentLocked(call *startCall) bool {
	if call.gen == t.gen {
		return true
	}
	if t.rearm {
		call.gen = t.gen
		t.rearm = false
		return true
	}
	return false
}

func (t *LocationTracker) start(ctx context.Context, span trace.Span, call *startCall) error {
	perm, err := t.source.RequestPermission(ctx)
	if err != nil {
		metrics.PermissionRequests.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "permission request failed")
		return fmt.Errorf("request location permission: %w", err)
	}
	metrics.PermissionRequests.WithLabelValues(perm.String()).Inc()
	span.SetAttributes(attribute.String("permission", perm.String()))

	if perm != domain.PermissionGranted {
		t.mu.Lock()
		t.denied = true
		if !t.currentLocked(call) {
			// stopped while the prompt was open; the denial still sticks
			t.mu.Unlock()
			slog.Warn("location permission denied after stop")
			return domain.ErrPermissionDenied
		}
		t.state.Sample = nil
		t.state.Viewport = nil
		t.setStatusLocked(domain.TrackerUnavailable, domain.MessageUnavailable)
		state := t.snapshotLocked()
		t.mu.Unlock()

		slog.Warn("location permission denied")
		t.publish(state)
		return domain.ErrPermissionDenied
	}

	sub, err := t.source.Watch(ctx, t.opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "watch failed")
		return fmt.Errorf("watch position: %w", err)
	}

	t.mu.Lock()
	if !t.currentLocked(call) {
		t.mu.Unlock()
		sub.Remove()
		return nil
	}
	gen := call.gen
	quit := make(chan struct{})
	done := make(chan struct{})
	t.sub, t.quit, t.done = sub, quit, done
	t.mu.Unlock()

	slog.Info("location tracking started",
		"accuracy", t.opts.Accuracy.String(),
		"min_interval", t.opts.MinInterval.String(),
		"min_distance_m", t.opts.MinDistanceMeters,
	)

	go t.consume(gen, sub, quit, done)
	return nil
}

// Stop releases the subscription and clears the sample and viewport.
// Nothing is applied after Stop returns. Calling it again is a no-op.
func (t *LocationTracker) Stop() {
	_, span := telemetry.Tracer().Start(context.Background(), telemetry.SpanTrackerStop)
	defer span.End()

	t.mu.Lock()
	t.gen++
	t.rearm = false
	sub, quit, done := t.sub, t.quit, t.done
	t.sub, t.quit, t.done = nil, nil, nil
	t.state.Sample = nil
	t.state.Viewport = nil
	changed := false
	if t.state.Status != domain.TrackerUnavailable && t.state.Status != domain.TrackerStopped {
		t.setStatusLocked(domain.TrackerStopped, "")
		changed = true
	}
	state := t.snapshotLocked()
	t.mu.Unlock()

	if sub != nil {
		close(quit)
		sub.Remove()
		<-done
		slog.Info("location tracking stopped")
	}
	if changed {
		t.publish(state)
	}
}

// State returns a copy of the current tracker state.
func (t *LocationTracker) State() domain.TrackerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *LocationTracker) consume(gen uint64, sub ports.Subscription, quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	updates := sub.Updates()
	for {
		select {
		case <-quit:
			return
		case s, ok := <-updates:
			if !ok {
				return
			}
			t.apply(gen, s)
		}
	}
}

// apply replaces the sample and recenters the viewport on it.
func (t *LocationTracker) apply(gen uint64, s domain.PositionSample) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		metrics.PositionUpdatesIgnored.Inc()
		return
	}
	sample := copySample(s)
	vp := domain.ViewportAt(sample.Location, t.span)
	t.state.Sample = &sample
	t.state.Viewport = &vp
	t.state.Updates++
	if t.state.Status != domain.TrackerTracking {
		t.setStatusLocked(domain.TrackerTracking, "")
	}
	state := t.snapshotLocked()
	t.mu.Unlock()

	metrics.PositionUpdatesApplied.Inc()
	t.publish(state)
}

func (t *LocationTracker) publish(state domain.TrackerState) {
	if t.publisher == nil {
		return
	}
	if err := t.publisher.PublishTrackerState(context.Background(), &state); err != nil {
		slog.Warn("publish tracker state", "error", err)
	}
}

func (t *LocationTracker) setStatusLocked(status domain.TrackerStatus, message string) {
	t.state.Status = status
	t.state.Message = message
	metrics.SetTrackerStatus(string(status), trackerStatuses...)
}

func (t *LocationTracker) snapshotLocked() domain.TrackerState {
	out := t.state
	if t.state.Sample != nil {
		s := copySample(*t.state.Sample)
		out.Sample = &s
	}
	if t.state.Viewport != nil {
		vp := *t.state.Viewport
		out.Viewport = &vp
	}
	return out
}

func copySample(s domain.PositionSample) domain.PositionSample {
	if s.Accuracy != nil {
		acc := *s.Accuracy
		s.Accuracy = &acc
	}
	return s
}
