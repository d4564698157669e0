package location

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/samirrijal/mygeo/internal/core/domain"
	"github.com/samirrijal/mygeo/internal/core/ports"
)

// Simulated is an in-process location service. It answers the permission
// prompt with a fixed outcome and fans pushed samples out to open streams.
type Simulated struct {
	mu         sync.Mutex
	permission domain.Permission
	permErr    error
	watchErr   error
	prompts    int
	streams    map[*Stream]struct{}
}

// NewSimulated creates a source that answers every prompt with p.
func NewSimulated(p domain.Permission) *Simulated {
	return &Simulated{permission: p, streams: make(map[*Stream]struct{})}
}

// SetPermissionError makes the next prompts fail with err.
func (s *Simulated) SetPermissionError(err error) {
	s.mu.Lock()
	s.permErr = err
	s.mu.Unlock()
}

// SetWatchError makes the next Watch calls fail with err.
func (s *Simulated) SetWatchError(err error) {
	s.mu.Lock()
	s.watchErr = err
	s.mu.Unlock()
}

// RequestPermission implements ports.LocationSource.
func (s *Simulated) RequestPermission(ctx context.Context) (domain.Permission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts++
	if s.permErr != nil {
		return domain.PermissionDenied, s.permErr
	}
	return s.permission, nil
}

// Watch implements ports.LocationSource.
func (s *Simulated) Watch(ctx context.Context, opts domain.WatchOptions) (ports.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watchErr != nil {
		return nil, s.watchErr
	}
	var st *Stream
	st = NewStream(opts, func() {
		s.mu.Lock()
		delete(s.streams, st)
		s.mu.Unlock()
	})
	s.streams[st] = struct{}{}
	return st, nil
}

// Push delivers a sample to every open stream and returns how many accepted it.
func (s *Simulated) Push(sample domain.PositionSample) int {
	s.mu.Lock()
	streams := make([]*Stream, 0, len(s.streams))
	for st := range s.streams {
		streams = append(streams, st)
	}
	s.mu.Unlock()

	n := 0
	for _, st := range streams {
		if st.Deliver(sample) {
			n++
		}
	}
	return n
}

// Prompts returns how many times permission was requested.
func (s *Simulated) Prompts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompts
}

// Active returns the number of open streams.
func (s *Simulated) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.streams)
}

// Replay pushes the track in a loop, one fix every interval, until ctx is done.
func (s *Simulated) Replay(ctx context.Context, track []Fix, interval time.Duration) {
	if len(track) == 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; ; i = (i + 1) % len(track) {
		now := time.Now()
		sample := track[i].Sample(now)
		sample.Time = now
		s.Push(sample)
		select {
		case <-ctx.Done():
			slog.Info("simulated replay stopped")
			return
		case <-ticker.C:
		}
	}
}
