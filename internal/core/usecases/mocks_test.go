package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/mygeo/internal/core/domain"
	"github.com/samirrijal/mygeo/internal/core/ports"
)

// --- Mock LocationSource ---

type mockSource struct {
	mu       sync.Mutex
	prompts  int
	watches  int
	permFn   func(ctx context.Context) (domain.Permission, error)
	watchFn  func(ctx context.Context, opts domain.WatchOptions) (ports.Subscription, error)
	lastSub  *mockSub
	lastOpts domain.WatchOptions
}

func (m *mockSource) RequestPermission(ctx context.Context) (domain.Permission, error) {
	m.mu.Lock()
	m.prompts++
	m.mu.Unlock()
	if m.permFn != nil {
		return m.permFn(ctx)
	}
	return domain.PermissionGranted, nil
}

func (m *mockSource) Watch(ctx context.Context, opts domain.WatchOptions) (ports.Subscription, error) {
	m.mu.Lock()
	m.watches++
	m.lastOpts = opts
	m.mu.Unlock()
	if m.watchFn != nil {
		return m.watchFn(ctx, opts)
	}
	sub := newMockSub()
	m.mu.Lock()
	m.lastSub = sub
	m.mu.Unlock()
	return sub, nil
}

func (m *mockSource) sub() *mockSub {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSub
}

func (m *mockSource) counts() (prompts, watches int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prompts, m.watches
}

// mockSub never closes its channel, like a platform that keeps firing after
// the listener was removed.
type mockSub struct {
	ch      chan domain.PositionSample
	mu      sync.Mutex
	removed int
}

func newMockSub() *mockSub {
	return &mockSub{ch: make(chan domain.PositionSample, 16)}
}

func (s *mockSub) Updates() <-chan domain.PositionSample { return s.ch }

func (s *mockSub) Remove() {
	s.mu.Lock()
	s.removed++
	s.mu.Unlock()
}

func (s *mockSub) removals() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removed
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu     sync.Mutex
	states []domain.TrackerState
	points []domain.Point
	err    error
}

func (m *mockPublisher) PublishTrackerState(ctx context.Context, state *domain.TrackerState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states = append(m.states, *state)
	return m.err
}

func (m *mockPublisher) PublishPoint(ctx context.Context, p *domain.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points = append(m.points, *p)
	return m.err
}

func (m *mockPublisher) stateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.states)
}

// --- Mock PointRepository ---

type mockPointRepo struct {
	mu       sync.Mutex
	points   []domain.Point
	appendFn func(ctx context.Context, p *domain.Point) error
}

func (m *mockPointRepo) Append(ctx context.Context, p *domain.Point) error {
	if m.appendFn != nil {
		if err := m.appendFn(ctx, p); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points = append(m.points, *p)
	return nil
}

func (m *mockPointRepo) List(ctx context.Context) ([]domain.Point, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Point(nil), m.points...), nil
}

func (m *mockPointRepo) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.points), nil
}

// --- Mock CacheService ---

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	sets int
}

var errCacheMiss = errors.New("cache miss")

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
