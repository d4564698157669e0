package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/mygeo/internal/core/domain"
	"github.com/samirrijal/mygeo/internal/core/ports"
	"github.com/samirrijal/mygeo/internal/pkg/geospatial"
	"github.com/samirrijal/mygeo/internal/pkg/metrics"
	"github.com/samirrijal/mygeo/internal/pkg/telemetry"
)

// PointService owns the points of interest and the tap-to-place draft.
type PointService struct {
	points    ports.PointRepository
	publisher ports.EventPublisher
	cache     ports.CacheService
	cacheNS   string
	now       func() time.Time

	mu    sync.Mutex
	draft *domain.Draft
}

// PointOption customises a PointService.
type PointOption func(*PointService)

// WithPointCache caches nearby lookups. namespace keeps replicas, which each
// hold their own points, from reading each other's entries.
func WithPointCache(cache ports.CacheService, namespace string) PointOption {
	return func(s *PointService) {
		s.cache = cache
		s.cacheNS = namespace
	}
}

// NewPointService creates a new PointService. publisher may be nil.
func NewPointService(points ports.PointRepository, publisher ports.EventPublisher, opts ...PointOption) *PointService {
	s := &PointService{points: points, publisher: publisher, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// OpenDraft starts (or retargets) a pending point at a tapped coordinate.
// A retargeted draft keeps the name typed so far.
func (s *PointService) OpenDraft(coord domain.GeoPoint) (domain.Draft, error) {
	if !coord.Valid() {
		return domain.Draft{}, domain.ErrIncompleteFields
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		s.draft = &domain.Draft{}
	}
	s.draft.Coordinate = coord
	return *s.draft, nil
}

// SetDraftName updates the name field of the pending point.
func (s *PointService) SetDraftName(name string) (domain.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return domain.Draft{}, domain.ErrNoDraft
	}
	s.draft.Name = name
	return *s.draft, nil
}

// Draft returns the pending point, or nil when none is open.
func (s *PointService) Draft() *domain.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return nil
	}
	d := *s.draft
	return &d
}

// CancelDraft discards the pending point without touching the store.
func (s *PointService) CancelDraft() {
	s.mu.Lock()
	s.draft = nil
	s.mu.Unlock()
}

// CommitDraft saves the pending point. An empty name leaves the draft open.
func (s *PointService) CommitDraft(ctx context.Context) (*domain.Point, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanPointCommit)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return nil, domain.ErrNoDraft
	}
	name, err := domain.NormalizeName(s.draft.Name)
	if err != nil {
		recordValidation(err)
		return nil, err
	}

	p, err := s.commit(ctx, name, s.draft.Coordinate, domain.SourceTap)
	if err != nil {
		return nil, err
	}
	s.draft = nil
	span.SetAttributes(attribute.String("point.id", p.ID))
	return p, nil
}

// SubmitManual validates the coordinate entry form and saves the point.
func (s *PointService) SubmitManual(ctx context.Context, entry domain.ManualEntry) (*domain.Point, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanPointManual)
	defer span.End()

	name, coord, err := entry.Parse()
	if err != nil {
		recordValidation(err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.commit(ctx, name, coord, domain.SourceManual)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("point.id", p.ID))
	return p, nil
}

// List returns every point in insertion order.
func (s *PointService) List(ctx context.Context) ([]domain.Point, error) {
	return s.points.List(ctx)
}

// Nearby returns points within radiusMeters of center, closest first.
func (s *PointService) Nearby(ctx context.Context, center domain.GeoPoint, radiusMeters float64, limit int) ([]domain.NearbyPoint, error) {
	if !center.Valid() {
		return nil, fmt.Errorf("invalid center %.6f, %.6f", center.Lat, center.Lon)
	}
	if radiusMeters <= 0 {
		radiusMeters = 500
	}
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	// The list is append-only, so its length versions the key.
	count, err := s.points.Count(ctx)
	if err != nil {
		return nil, err
	}
	cacheKey := fmt.Sprintf("points:nearby:%s:%d:%.4f:%.4f:%.0f:%d",
		s.cacheNS, count, center.Lat, center.Lon, radiusMeters, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached []domain.NearbyPoint
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
			_ = s.cache.Delete(ctx, cacheKey)
		}
	}

	points, err := s.points.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.NearbyPoint, 0, len(points))
	for _, p := range points {
		d := geospatial.Haversine(center.Lat, center.Lon, p.Coordinate.Lat, p.Coordinate.Lon)
		if d <= radiusMeters {
			out = append(out, domain.NearbyPoint{Point: p, DistanceMeters: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceMeters < out[j].DistanceMeters })
	if len(out) > limit {
		out = out[:limit]
	}

	if s.cache != nil {
		if data, err := json.Marshal(out); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}
	return out, nil
}

// Count returns the number of points.
func (s *PointService) Count(ctx context.Context) (int, error) {
	return s.points.Count(ctx)
}

func (s *PointService) commit(ctx context.Context, name string, coord domain.GeoPoint, source string) (*domain.Point, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("allocate point id: %w", err)
	}
	p := &domain.Point{
		ID:         id.String(),
		Name:       name,
		Coordinate: coord,
		Source:     source,
		CreatedAt:  s.now(),
	}
	if err := s.points.Append(ctx, p); err != nil {
		return nil, fmt.Errorf("append point: %w", err)
	}
	metrics.PointsCreated.WithLabelValues(source).Inc()

	if s.publisher != nil {
		if err := s.publisher.PublishPoint(ctx, p); err != nil {
			slog.Warn("publish point", "id", p.ID, "error", err)
		}
	}
	return p, nil
}

func recordValidation(err error) {
	reason := "other"
	switch {
	case errors.Is(err, domain.ErrEmptyName):
		reason = "empty_name"
	case errors.Is(err, domain.ErrIncompleteFields):
		reason = "incomplete_fields"
	}
	metrics.ValidationFailures.WithLabelValues(reason).Inc()
}
