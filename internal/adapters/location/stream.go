// Package location adapts platform position feeds into tracker subscriptions.
package location

import (
	"sync"

	"github.com/samirrijal/mygeo/internal/core/domain"
	"github.com/samirrijal/mygeo/internal/pkg/geospatial"
	"github.com/samirrijal/mygeo/internal/pkg/metrics"
)

const defaultBuffer = 64

// Stream implements ports.Subscription on top of a buffered channel and
// applies the watch thresholds before anything reaches the consumer.
type Stream struct {
	opts     domain.WatchOptions
	onRemove func()

	ch   chan domain.PositionSample
	done chan struct{}
	once sync.Once

	mu     sync.Mutex
	closed bool
	last   *domain.PositionSample
}

// NewStream creates an open stream. onRemove runs once when the stream is removed.
func NewStream(opts domain.WatchOptions, onRemove func()) *Stream {
	return &Stream{
		opts:     opts,
		onRemove: onRemove,
		ch:       make(chan domain.PositionSample, defaultBuffer),
		done:     make(chan struct{}),
	}
}

// Updates implements ports.Subscription.
func (s *Stream) Updates() <-chan domain.PositionSample {
	return s.ch
}

// Deliver hands a sample to the consumer unless the stream is closed or the
// sample falls inside the interval/distance thresholds of the last one.
// It blocks while the buffer is full.
func (s *Stream) Deliver(sample domain.PositionSample) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	if ok, reason := Admit(s.opts, s.last, sample); !ok {
		metrics.SamplesFiltered.WithLabelValues(reason).Inc()
		return false
	}

	select {
	case s.ch <- sample:
		s.last = &sample
		return true
	case <-s.done:
		return false
	}
}

// Remove implements ports.Subscription.
func (s *Stream) Remove() {
	s.once.Do(func() {
		close(s.done)
		if s.onRemove != nil {
			s.onRemove()
		}
		s.mu.Lock()
		s.closed = true
		close(s.ch)
		s.mu.Unlock()
	})
}

// Admit reports whether next may follow prev under opts, and why not.
// The first sample is always admitted. Samples without timestamps skip the
// interval check.
func Admit(opts domain.WatchOptions, prev *domain.PositionSample, next domain.PositionSample) (bool, string) {
	if !next.Location.Valid() {
		return false, "invalid"
	}
	if prev == nil {
		return true, ""
	}
	if opts.MinInterval > 0 && !prev.Time.IsZero() && !next.Time.IsZero() {
		if next.Time.Sub(prev.Time) < opts.MinInterval {
			return false, "interval"
		}
	}
	if opts.MinDistanceMeters > 0 {
		d := geospatial.Haversine(prev.Location.Lat, prev.Location.Lon, next.Location.Lat, next.Location.Lon)
		if d < opts.MinDistanceMeters {
			return false, "distance"
		}
	}
	return true, ""
}
