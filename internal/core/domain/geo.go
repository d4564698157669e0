package domain

import "math"

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether both components are finite.
func (p GeoPoint) Valid() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lon) && !math.IsInf(p.Lon, 0)
}

// Span is the angular size of a map region.
type Span struct {
	LatitudeDelta  float64 `json:"latitude_delta"`
	LongitudeDelta float64 `json:"longitude_delta"`
}

// DefaultLatitudeDelta is the fixed zoom level used for the tracking viewport.
const DefaultLatitudeDelta = 0.005

// SpanFor returns a span with the given latitude delta whose longitude delta is
// scaled by the screen aspect ratio (width / height). A non-positive ratio is
// treated as square.
func SpanFor(latitudeDelta, aspectRatio float64) Span {
	if aspectRatio <= 0 || math.IsNaN(aspectRatio) || math.IsInf(aspectRatio, 0) {
		aspectRatio = 1
	}
	return Span{
		LatitudeDelta:  latitudeDelta,
		LongitudeDelta: latitudeDelta * aspectRatio,
	}
}

// Viewport is the visible map region.
type Viewport struct {
	Center GeoPoint `json:"center"`
	Span   Span     `json:"span"`
}

// ViewportAt centers a viewport on p. The center is copied verbatim.
func ViewportAt(p GeoPoint, span Span) Viewport {
	return Viewport{Center: p, Span: span}
}

// Bounds returns the box covered by the viewport.
func (v Viewport) Bounds() Bounds {
	halfLat := v.Span.LatitudeDelta / 2
	halfLon := v.Span.LongitudeDelta / 2
	return Bounds{
		MinLat: v.Center.Lat - halfLat,
		MinLon: v.Center.Lon - halfLon,
		MaxLat: v.Center.Lat + halfLat,
		MaxLon: v.Center.Lon + halfLon,
	}
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether p lies inside the box, edges included.
func (b Bounds) Contains(p GeoPoint) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}
