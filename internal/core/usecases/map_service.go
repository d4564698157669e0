package usecases

import (
	"context"

	"github.com/samirrijal/mygeo/internal/core/domain"
	"github.com/samirrijal/mygeo/internal/pkg/telemetry"
)

// MapService assembles the render model consumed by map views.
type MapService struct {
	tracker        *LocationTracker
	points         *PointService
	fallbackRadius float64
}

// NewMapService creates a new MapService. fallbackRadius is the accuracy
// circle radius in meters used when a sample carries no accuracy.
func NewMapService(tracker *LocationTracker, points *PointService, fallbackRadius float64) *MapService {
	if fallbackRadius <= 0 {
		fallbackRadius = domain.DefaultAccuracyRadius
	}
	return &MapService{tracker: tracker, points: points, fallbackRadius: fallbackRadius}
}

// View returns the current frame: camera, position overlay and point markers.
func (s *MapService) View(ctx context.Context) (*domain.MapView, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanMapView)
	defer span.End()

	points, err := s.points.List(ctx)
	if err != nil {
		return nil, err
	}
	if points == nil {
		points = []domain.Point{}
	}

	state := s.tracker.State()
	view := &domain.MapView{
		Status:   state.Status,
		Message:  state.Message,
		Viewport: state.Viewport,
		Position: state.Sample,
		Points:   points,
		Markers:  make([]domain.Marker, 0, len(points)+1),
		Draft:    s.points.Draft(),
	}
	if !view.Renderable() && view.Message == "" {
		view.Message = domain.MessageLoadingMap
	}
	if view.Renderable() {
		b := view.Viewport.Bounds()
		view.Bounds = &b
	}

	if state.Sample != nil {
		header := domain.HeaderFor(*state.Sample)
		circle := domain.AccuracyCircle(*state.Sample, s.fallbackRadius)
		view.Header = &header
		view.Circle = &circle
		view.Markers = append(view.Markers, domain.Marker{
			ID:         "current",
			Coordinate: state.Sample.Location,
			Title:      domain.CurrentPositionTitle,
			Tint:       domain.TintCurrentPosition,
		})
	}
	for _, p := range points {
		if view.Bounds != nil && view.Bounds.Contains(p.Coordinate) {
			view.Visible++
		}
		view.Markers = append(view.Markers, domain.Marker{
			ID:         p.ID,
			Coordinate: p.Coordinate,
			Title:      p.Name,
			Tint:       domain.TintPoint,
		})
	}
	return view, nil
}

// Tap opens the name prompt for a point at the tapped coordinate.
func (s *MapService) Tap(coord domain.GeoPoint) (domain.Draft, error) {
	return s.points.OpenDraft(coord)
}
