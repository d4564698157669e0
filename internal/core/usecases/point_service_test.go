package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/samirrijal/mygeo/internal/core/domain"
	"github.com/samirrijal/mygeo/internal/core/usecases"
)

func TestPointService_SubmitManual(t *testing.T) {
	repo := &mockPointRepo{}
	pub := &mockPublisher{}
	svc := usecases.NewPointService(repo, pub)

	p, err := svc.SubmitManual(context.Background(), domain.ManualEntry{
		Name:      "  Cafe ",
		Latitude:  "48.8566",
		Longitude: "2.3522",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Cafe" {
		t.Errorf("expected trimmed name, got %q", p.Name)
	}
	if p.Coordinate != (domain.GeoPoint{Lat: 48.8566, Lon: 2.3522}) {
		t.Errorf("unexpected coordinate %+v", p.Coordinate)
	}
	if p.ID == "" || p.CreatedAt.IsZero() || p.Source != domain.SourceManual {
		t.Errorf("unexpected point %+v", p)
	}
	if len(repo.points) != 1 {
		t.Fatalf("expected 1 stored point, got %d", len(repo.points))
	}
	if len(pub.points) != 1 || pub.points[0].ID != p.ID {
		t.Errorf("expected the point to be published")
	}
}

func TestPointService_SubmitManualValidation(t *testing.T) {
	tests := []struct {
		name  string
		entry domain.ManualEntry
		want  error
	}{
		{"empty name", domain.ManualEntry{Name: "", Latitude: "1", Longitude: "2"}, domain.ErrEmptyName},
		{"blank name", domain.ManualEntry{Name: "   ", Latitude: "1", Longitude: "2"}, domain.ErrEmptyName},
		{"name checked first", domain.ManualEntry{Name: "", Latitude: "", Longitude: ""}, domain.ErrEmptyName},
		{"non-numeric longitude", domain.ManualEntry{Name: "Cafe", Latitude: "48.8566", Longitude: "abc"}, domain.ErrIncompleteFields},
		{"empty latitude", domain.ManualEntry{Name: "Cafe", Latitude: "", Longitude: "2"}, domain.ErrIncompleteFields},
		{"infinite latitude", domain.ManualEntry{Name: "Cafe", Latitude: "Inf", Longitude: "2"}, domain.ErrIncompleteFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockPointRepo{}
			svc := usecases.NewPointService(repo, nil)

			_, err := svc.SubmitManual(context.Background(), tt.entry)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(repo.points) != 0 {
				t.Errorf("expected no mutation, got %d points", len(repo.points))
			}
		})
	}
}

func TestPointService_TapThenCancel(t *testing.T) {
	repo := &mockPointRepo{}
	svc := usecases.NewPointService(repo, nil)

	if _, err := svc.OpenDraft(domain.GeoPoint{Lat: 40.0, Lon: -73.9}); err != nil {
		t.Fatal(err)
	}
	svc.CancelDraft()
	svc.CancelDraft()

	if svc.Draft() != nil {
		t.Error("expected no draft after cancel")
	}
	if len(repo.points) != 0 {
		t.Errorf("expected no points, got %d", len(repo.points))
	}
	if _, err := svc.CommitDraft(context.Background()); !errors.Is(err, domain.ErrNoDraft) {
		t.Errorf("expected ErrNoDraft, got %v", err)
	}
}

func TestPointService_TapNameConfirm(t *testing.T) {
	repo := &mockPointRepo{}
	svc := usecases.NewPointService(repo, nil)
	ctx := context.Background()

	if _, err := svc.OpenDraft(domain.GeoPoint{Lat: 40.0, Lon: -73.9}); err != nil {
		t.Fatal(err)
	}

	// Confirming with an empty name keeps the prompt open.
	if _, err := svc.CommitDraft(ctx); !errors.Is(err, domain.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if svc.Draft() == nil {
		t.Fatal("expected draft to stay open")
	}

	if _, err := svc.SetDraftName("Park"); err != nil {
		t.Fatal(err)
	}
	p, err := svc.CommitDraft(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Park" || p.Coordinate != (domain.GeoPoint{Lat: 40.0, Lon: -73.9}) || p.Source != domain.SourceTap {
		t.Errorf("unexpected point %+v", p)
	}
	if svc.Draft() != nil {
		t.Error("expected draft to be cleared")
	}
	if len(repo.points) != 1 {
		t.Errorf("expected 1 point, got %d", len(repo.points))
	}
}

func TestPointService_RetapKeepsName(t *testing.T) {
	svc := usecases.NewPointService(&mockPointRepo{}, nil)

	svc.OpenDraft(domain.GeoPoint{Lat: 1, Lon: 1})
	svc.SetDraftName("Bench")
	d, err := svc.OpenDraft(domain.GeoPoint{Lat: 2, Lon: 2})
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != "Bench" || d.Coordinate != (domain.GeoPoint{Lat: 2, Lon: 2}) {
		t.Errorf("unexpected draft %+v", d)
	}
}

func TestPointService_SetDraftNameWithoutDraft(t *testing.T) {
	svc := usecases.NewPointService(&mockPointRepo{}, nil)
	if _, err := svc.SetDraftName("Park"); !errors.Is(err, domain.ErrNoDraft) {
		t.Errorf("expected ErrNoDraft, got %v", err)
	}
}

func TestPointService_AppendFailureKeepsDraft(t *testing.T) {
	repo := &mockPointRepo{
		appendFn: func(ctx context.Context, p *domain.Point) error { return errors.New("disk full") },
	}
	svc := usecases.NewPointService(repo, nil)
	svc.OpenDraft(domain.GeoPoint{Lat: 1, Lon: 1})
	svc.SetDraftName("Park")

	if _, err := svc.CommitDraft(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
	if svc.Draft() == nil {
		t.Error("expected draft to stay open after a failed save")
	}
}

func TestPointService_UniqueOrderedIDs(t *testing.T) {
	repo := &mockPointRepo{}
	svc := usecases.NewPointService(repo, nil)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		p, err := svc.SubmitManual(ctx, domain.ManualEntry{Name: fmt.Sprintf("P%d", i), Latitude: "1", Longitude: "1"})
		if err != nil {
			t.Fatal(err)
		}
		if seen[p.ID] {
			t.Fatalf("duplicate id %s", p.ID)
		}
		seen[p.ID] = true
	}
	points, _ := svc.List(ctx)
	for i := 1; i < len(points); i++ {
		if points[i-1].ID >= points[i].ID {
			t.Errorf("ids not time ordered: %s then %s", points[i-1].ID, points[i].ID)
		}
	}
}

func TestPointService_Nearby(t *testing.T) {
	repo := &mockPointRepo{}
	cache := newMockCache()
	svc := usecases.NewPointService(repo, nil, usecases.WithPointCache(cache, "test"))
	ctx := context.Background()

	for _, e := range []domain.ManualEntry{
		{Name: "Far", Latitude: "48.8666", Longitude: "2.3522"},
		{Name: "Mid", Latitude: "48.8570", Longitude: "2.3522"},
		{Name: "Near", Latitude: "48.8567", Longitude: "2.3522"},
	} {
		if _, err := svc.SubmitManual(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	center := domain.GeoPoint{Lat: 48.8566, Lon: 2.3522}
	got, err := svc.Nearby(ctx, center, 200, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Name != "Near" || got[1].Name != "Mid" {
		t.Fatalf("expected Near then Mid, got %+v", got)
	}
	if got[0].DistanceMeters >= got[1].DistanceMeters {
		t.Errorf("expected ascending distance")
	}
	if cache.sets != 1 {
		t.Errorf("expected result to be cached, got %d sets", cache.sets)
	}

	// Same query hits the cache.
	if _, err := svc.Nearby(ctx, center, 200, 10); err != nil {
		t.Fatal(err)
	}
	if cache.sets != 1 {
		t.Errorf("expected a cache hit, got %d sets", cache.sets)
	}

	// A new point changes the key.
	svc.SubmitManual(ctx, domain.ManualEntry{Name: "Newest", Latitude: "48.8566", Longitude: "2.3522"})
	got, _ = svc.Nearby(ctx, center, 200, 10)
	if len(got) != 3 || got[0].Name != "Newest" {
		t.Errorf("expected fresh result with Newest first, got %+v", got)
	}
}
