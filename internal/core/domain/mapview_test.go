package domain

import "testing"

func TestHeaderFor(t *testing.T) {
	acc := 3.25
	h := HeaderFor(PositionSample{Location: GeoPoint{Lat: 48.8566, Lon: 2.3522}, Accuracy: &acc})
	if h.Position != "48.856600, 2.352200" {
		t.Errorf("position %q", h.Position)
	}
	if h.Accuracy != "Accuracy: 3.2m" && h.Accuracy != "Accuracy: 3.3m" {
		t.Errorf("accuracy %q", h.Accuracy)
	}

	h = HeaderFor(PositionSample{Location: GeoPoint{Lat: -1, Lon: 1}})
	if h.Accuracy != "" {
		t.Errorf("expected no accuracy line, got %q", h.Accuracy)
	}
}

func TestAccuracyCircle(t *testing.T) {
	acc := 17.0
	s := PositionSample{Location: GeoPoint{Lat: 1, Lon: 2}, Accuracy: &acc}
	c := AccuracyCircle(s, DefaultAccuracyRadius)
	want := Circle{
		Center:      GeoPoint{Lat: 1, Lon: 2},
		Radius:      17,
		StrokeWidth: 1,
		StrokeColor: "rgba(74, 144, 226, 0.5)",
		FillColor:   "rgba(74, 144, 226, 0.2)",
	}
	if c != want {
		t.Errorf("got %+v, want %+v", c, want)
	}

	s.Accuracy = nil
	if r := AccuracyCircle(s, 0).Radius; r != DefaultAccuracyRadius {
		t.Errorf("expected default radius, got %v", r)
	}
}
