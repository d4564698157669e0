package domain

import "fmt"

// Marker tints.
const (
	TintCurrentPosition = "red"
	TintPoint           = "blue"
)

// DefaultAccuracyRadius is the circle radius in meters when accuracy is unknown.
const DefaultAccuracyRadius = 5.0

// CurrentPositionTitle labels the "you are here" marker.
const CurrentPositionTitle = "My position"

// Marker is a labeled pin on the map.
type Marker struct {
	ID         string   `json:"id"`
	Coordinate GeoPoint `json:"coordinate"`
	Title      string   `json:"title"`
	Tint       string   `json:"tint"`
}

// Circle is the accuracy overlay around the current position.
type Circle struct {
	Center      GeoPoint `json:"center"`
	Radius      float64  `json:"radius"` // meters
	StrokeWidth float64  `json:"stroke_width"`
	StrokeColor string   `json:"stroke_color"`
	FillColor   string   `json:"fill_color"`
}

// AccuracyCircle builds the overlay for a sample.
func AccuracyCircle(s PositionSample, fallbackRadius float64) Circle {
	if fallbackRadius <= 0 {
		fallbackRadius = DefaultAccuracyRadius
	}
	return Circle{
		Center:      s.Location,
		Radius:      s.AccuracyOr(fallbackRadius),
		StrokeWidth: 1,
		StrokeColor: "rgba(74, 144, 226, 0.5)",
		FillColor:   "rgba(74, 144, 226, 0.2)",
	}
}

// MapView is everything a map surface needs to render one frame.
type MapView struct {
	Status   TrackerStatus   `json:"status"`
	Message  string          `json:"message,omitempty"`
	Header   *Header         `json:"header,omitempty"`
	Viewport *Viewport       `json:"viewport,omitempty"`
	Bounds   *Bounds         `json:"bounds,omitempty"`
	Position *PositionSample `json:"position,omitempty"`
	Circle   *Circle         `json:"circle,omitempty"`
	Markers  []Marker        `json:"markers"`
	Points   []Point         `json:"points"`
	Draft    *Draft          `json:"draft,omitempty"`
	Visible  int             `json:"visible"` // points inside Bounds
}

// Renderable reports whether the map has a camera position yet.
func (v MapView) Renderable() bool {
	return v.Viewport != nil
}

// Header is the text block above the map.
type Header struct {
	Position string `json:"position"`
	Accuracy string `json:"accuracy,omitempty"`
}

// HeaderFor formats a sample with 6 decimal places and accuracy to 0.1 m.
func HeaderFor(s PositionSample) Header {
	h := Header{
		Position: fmt.Sprintf("%.6f, %.6f", s.Location.Lat, s.Location.Lon),
	}
	if s.Accuracy != nil {
		h.Accuracy = fmt.Sprintf("Accuracy: %.1fm", *s.Accuracy)
	}
	return h
}
