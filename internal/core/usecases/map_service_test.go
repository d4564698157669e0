package usecases_test

import (
	"context"
	"testing"

	"github.com/samirrijal/mygeo/internal/core/domain"
	"github.com/samirrijal/mygeo/internal/core/usecases"
)

func TestMapService_ViewBeforeFirstSample(t *testing.T) {
	tr := usecases.NewLocationTracker(&mockSource{})
	svc := usecases.NewMapService(tr, usecases.NewPointService(&mockPointRepo{}, nil), 0)

	view, err := svc.View(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if view.Renderable() {
		t.Error("expected map not to be renderable")
	}
	if view.Message != domain.MessageLoadingMap {
		t.Errorf("expected %q, got %q", domain.MessageLoadingMap, view.Message)
	}
	if view.Header != nil || view.Circle != nil || len(view.Markers) != 0 {
		t.Errorf("expected no overlays, got %+v", view)
	}
	if view.Points == nil {
		t.Error("expected empty, non-nil points")
	}
}

func TestMapService_ViewKeepsWaitingMessage(t *testing.T) {
	tr := usecases.NewLocationTracker(&mockSource{})
	defer tr.Stop()
	if err := tr.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	svc := usecases.NewMapService(tr, usecases.NewPointService(&mockPointRepo{}, nil), 0)

	view, _ := svc.View(context.Background())
	if view.Message != domain.MessageWaiting {
		t.Errorf("expected %q, got %q", domain.MessageWaiting, view.Message)
	}
}

func TestMapService_ViewWithPositionAndPoints(t *testing.T) {
	src := &mockSource{}
	tr := usecases.NewLocationTracker(src)
	defer tr.Stop()
	points := usecases.NewPointService(&mockPointRepo{}, nil)
	svc := usecases.NewMapService(tr, points, 0)
	ctx := context.Background()

	if err := tr.Start(ctx); err != nil {
		t.Fatal(err)
	}
	src.sub().ch <- sampleAt(48.8566, 2.3522)
	waitFor(t, func() bool { return tr.State().Sample != nil })

	points.SubmitManual(ctx, domain.ManualEntry{Name: "Cafe", Latitude: "48.8567", Longitude: "2.3523"})
	points.SubmitManual(ctx, domain.ManualEntry{Name: "Tower", Latitude: "48.8584", Longitude: "2.2945"})
	svc.Tap(domain.GeoPoint{Lat: 48.8570, Lon: 2.3500})

	view, err := svc.View(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if view.Status != domain.TrackerTracking || view.Message != "" {
		t.Errorf("unexpected status %s %q", view.Status, view.Message)
	}
	if view.Viewport.Center != (domain.GeoPoint{Lat: 48.8566, Lon: 2.3522}) {
		t.Errorf("unexpected center %+v", view.Viewport.Center)
	}
	if view.Header.Position != "48.856600, 2.352200" || view.Header.Accuracy != "" {
		t.Errorf("unexpected header %+v", view.Header)
	}
	if view.Circle.Radius != domain.DefaultAccuracyRadius || view.Circle.StrokeWidth != 1 {
		t.Errorf("unexpected circle %+v", view.Circle)
	}

	if len(view.Markers) != 3 {
		t.Fatalf("expected 3 markers, got %d", len(view.Markers))
	}
	if m := view.Markers[0]; m.Title != domain.CurrentPositionTitle || m.Tint != domain.TintCurrentPosition {
		t.Errorf("unexpected position marker %+v", m)
	}
	for i, want := range []string{"Cafe", "Tower"} {
		m := view.Markers[i+1]
		if m.Title != want || m.Tint != domain.TintPoint {
			t.Errorf("marker %d = %+v, want blue %s", i+1, m, want)
		}
	}
	if view.Visible != 1 {
		t.Errorf("expected only Cafe in view, got %d", view.Visible)
	}
	if view.Draft == nil || view.Draft.Coordinate.Lat != 48.8570 {
		t.Errorf("expected open draft, got %+v", view.Draft)
	}
}

func TestMapService_FallbackRadius(t *testing.T) {
	src := &mockSource{}
	tr := usecases.NewLocationTracker(src)
	defer tr.Stop()
	svc := usecases.NewMapService(tr, usecases.NewPointService(&mockPointRepo{}, nil), 12)

	tr.Start(context.Background())
	src.sub().ch <- sampleAt(1, 1)
	waitFor(t, func() bool { return tr.State().Sample != nil })

	view, _ := svc.View(context.Background())
	if view.Circle.Radius != 12 {
		t.Errorf("expected fallback radius 12, got %v", view.Circle.Radius)
	}
}
