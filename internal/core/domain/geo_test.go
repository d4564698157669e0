package domain

import (
	"math"
	"testing"
)

func TestSpanFor(t *testing.T) {
	tests := []struct {
		name   string
		aspect float64
		want   Span
	}{
		{"square", 1, Span{0.005, 0.005}},
		{"portrait", 0.5, Span{0.005, 0.0025}},
		{"zero treated as square", 0, Span{0.005, 0.005}},
		{"negative treated as square", -2, Span{0.005, 0.005}},
		{"NaN treated as square", math.NaN(), Span{0.005, 0.005}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SpanFor(DefaultLatitudeDelta, tt.aspect); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestViewportAt_CenterIsExact(t *testing.T) {
	p := GeoPoint{Lat: 40.123456789012, Lon: -73.987654321098}
	vp := ViewportAt(p, SpanFor(DefaultLatitudeDelta, 1))
	if vp.Center != p {
		t.Errorf("center %+v, want %+v", vp.Center, p)
	}
}

func TestViewportBounds(t *testing.T) {
	vp := ViewportAt(GeoPoint{Lat: 10, Lon: 20}, Span{LatitudeDelta: 2, LongitudeDelta: 4})
	b := vp.Bounds()
	if b != (Bounds{MinLat: 9, MinLon: 18, MaxLat: 11, MaxLon: 22}) {
		t.Fatalf("unexpected bounds %+v", b)
	}
	if !b.Contains(GeoPoint{Lat: 11, Lon: 22}) {
		t.Error("expected edge to be inside")
	}
	if b.Contains(GeoPoint{Lat: 11.1, Lon: 20}) {
		t.Error("expected point outside")
	}
}

func TestGeoPointValid(t *testing.T) {
	if !(GeoPoint{Lat: 91, Lon: 200}).Valid() {
		t.Error("out-of-range but finite coordinates are accepted")
	}
	if (GeoPoint{Lat: math.NaN()}).Valid() || (GeoPoint{Lon: math.Inf(1)}).Valid() {
		t.Error("expected non-finite coordinates to be invalid")
	}
}
