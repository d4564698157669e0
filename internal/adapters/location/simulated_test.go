package location

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samirrijal/mygeo/internal/core/domain"
)

func TestSimulated_PermissionAndPrompts(t *testing.T) {
	sim := NewSimulated(domain.PermissionDenied)
	p, err := sim.RequestPermission(context.Background())
	if err != nil || p != domain.PermissionDenied {
		t.Fatalf("got %v, %v", p, err)
	}

	sim.SetPermissionError(errors.New("boom"))
	if _, err := sim.RequestPermission(context.Background()); err == nil {
		t.Error("expected permission error")
	}
	if sim.Prompts() != 2 {
		t.Errorf("expected 2 prompts, got %d", sim.Prompts())
	}
}

func TestSimulated_PushFansOutAndRemoveUnregisters(t *testing.T) {
	sim := NewSimulated(domain.PermissionGranted)
	a, err := sim.Watch(context.Background(), domain.WatchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := sim.Watch(context.Background(), domain.WatchOptions{})
	if sim.Active() != 2 {
		t.Fatalf("expected 2 streams, got %d", sim.Active())
	}

	if n := sim.Push(at(1, 2, time.Now())); n != 2 {
		t.Errorf("expected 2 deliveries, got %d", n)
	}
	<-a.Updates()
	<-b.Updates()

	a.Remove()
	if sim.Active() != 1 {
		t.Errorf("expected 1 stream after Remove, got %d", sim.Active())
	}
	if n := sim.Push(at(3, 4, time.Now())); n != 1 {
		t.Errorf("expected 1 delivery, got %d", n)
	}
	b.Remove()
}

func TestSimulated_WatchError(t *testing.T) {
	sim := NewSimulated(domain.PermissionGranted)
	sim.SetWatchError(errors.New("no gps"))
	if _, err := sim.Watch(context.Background(), domain.WatchOptions{}); err == nil {
		t.Error("expected watch error")
	}
}

func TestSimulated_Replay(t *testing.T) {
	sim := NewSimulated(domain.PermissionGranted)
	sub, _ := sim.Watch(context.Background(), domain.WatchOptions{})
	defer sub.Remove()

	ctx, cancel := context.WithCancel(context.Background())
	track := []Fix{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}
	go sim.Replay(ctx, track, time.Millisecond)
	defer cancel()

	for i, want := range []float64{1, 2, 1} {
		select {
		case s := <-sub.Updates():
			if s.Location.Lat != want {
				t.Errorf("sample %d lat %v, want %v", i, s.Location.Lat, want)
			}
			if s.Time.IsZero() {
				t.Errorf("sample %d not timestamped", i)
			}
		case <-time.After(time.Second):
			t.Fatalf("sample %d not replayed", i)
		}
	}
}
