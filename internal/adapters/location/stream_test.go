package location

import (
	"math"
	"testing"
	"time"

	"github.com/samirrijal/mygeo/internal/core/domain"
)

func at(lat, lon float64, ts time.Time) domain.PositionSample {
	return domain.PositionSample{Location: domain.GeoPoint{Lat: lat, Lon: lon}, Time: ts}
}

func TestAdmit(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	opts := domain.DefaultWatchOptions()
	prev := at(40, -73.9, t0)

	tests := []struct {
		name   string
		prev   *domain.PositionSample
		next   domain.PositionSample
		ok     bool
		reason string
	}{
		{"first sample", nil, at(40, -73.9, t0), true, ""},
		{"non-finite", nil, at(math.NaN(), 0, t0), false, "invalid"},
		{"too soon", &prev, at(40.001, -73.9, t0.Add(500*time.Millisecond)), false, "interval"},
		{"too close", &prev, at(40.000001, -73.9, t0.Add(2*time.Second)), false, "distance"},
		{"moved and waited", &prev, at(40.001, -73.9, t0.Add(2*time.Second)), true, ""},
		{"no timestamp skips interval", &prev, at(40.001, -73.9, time.Time{}), true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := Admit(opts, tt.prev, tt.next)
			if ok != tt.ok || reason != tt.reason {
				t.Errorf("got (%v, %q), want (%v, %q)", ok, reason, tt.ok, tt.reason)
			}
		})
	}
}

func TestStream_DeliverInOrder(t *testing.T) {
	s := NewStream(domain.WatchOptions{}, nil)
	defer s.Remove()

	for i := 0; i < 3; i++ {
		if !s.Deliver(at(float64(i), 0, time.Time{})) {
			t.Fatalf("sample %d rejected", i)
		}
	}
	for i := 0; i < 3; i++ {
		got := <-s.Updates()
		if got.Location.Lat != float64(i) {
			t.Errorf("update %d has lat %v", i, got.Location.Lat)
		}
	}
}

func TestStream_RemoveStopsDelivery(t *testing.T) {
	removed := 0
	s := NewStream(domain.WatchOptions{}, func() { removed++ })

	s.Remove()
	s.Remove()

	if removed != 1 {
		t.Errorf("expected onRemove once, got %d", removed)
	}
	if s.Deliver(at(1, 1, time.Time{})) {
		t.Error("expected delivery after Remove to be dropped")
	}
	if _, ok := <-s.Updates(); ok {
		t.Error("expected updates channel to be closed")
	}
}

func TestStream_RemoveUnblocksFullBuffer(t *testing.T) {
	s := NewStream(domain.WatchOptions{}, nil)
	for i := 0; i < defaultBuffer; i++ {
		s.Deliver(at(float64(i), 0, time.Time{}))
	}

	result := make(chan bool, 1)
	go func() { result <- s.Deliver(at(-1, 0, time.Time{})) }()

	time.Sleep(10 * time.Millisecond)
	s.Remove()

	select {
	case ok := <-result:
		if ok {
			t.Error("expected blocked delivery to be dropped")
		}
	case <-time.After(time.Second):
		t.Fatal("Deliver still blocked after Remove")
	}
}
