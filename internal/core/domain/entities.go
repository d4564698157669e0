package domain

import (
	"time"
)

// PositionSample is a single reading from the platform location service.
type PositionSample struct {
	Location GeoPoint  `json:"location"`
	Accuracy *float64  `json:"accuracy,omitempty"` // meters, nil when unknown
	Time     time.Time `json:"time"`
}

// AccuracyOr returns the reported accuracy or fallback when it is unknown.
func (s PositionSample) AccuracyOr(fallback float64) float64 {
	if s.Accuracy == nil || *s.Accuracy <= 0 {
		return fallback
	}
	return *s.Accuracy
}

// Point is a user-created point of interest.
type Point struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Coordinate GeoPoint  `json:"coordinate"`
	Source     string    `json:"source"` // "tap" | "manual"
	CreatedAt  time.Time `json:"created_at"`
}

// NearbyPoint is a point with its distance from a query center.
type NearbyPoint struct {
	Point
	DistanceMeters float64 `json:"distance_meters"`
}

// Point creation paths.
const (
	SourceTap    = "tap"
	SourceManual = "manual"
)

// Draft is the pending tap-to-place point awaiting a name.
type Draft struct {
	Coordinate GeoPoint `json:"coordinate"`
	Name       string   `json:"name"`
}

// ManualEntry holds the raw form fields of the coordinate entry form.
type ManualEntry struct {
	Name      string `json:"name"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// Accuracy tiers requested from the location service.
type Accuracy int

const (
	AccuracyBalanced Accuracy = iota
	AccuracyHigh
	AccuracyHighest
)

func (a Accuracy) String() string {
	switch a {
	case AccuracyHighest:
		return "highest"
	case AccuracyHigh:
		return "high"
	default:
		return "balanced"
	}
}

// WatchOptions configures a position subscription.
type WatchOptions struct {
	Accuracy          Accuracy      `json:"accuracy"`
	MinInterval       time.Duration `json:"min_interval"`
	MinDistanceMeters float64       `json:"min_distance_meters"`
}

// DefaultWatchOptions matches a navigation-grade foreground subscription.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		Accuracy:          AccuracyHighest,
		MinInterval:       time.Second,
		MinDistanceMeters: 1,
	}
}

// Permission is the outcome of a foreground location permission prompt.
type Permission int

const (
	PermissionDenied Permission = iota
	PermissionGranted
)

func (p Permission) String() string {
	if p == PermissionGranted {
		return "granted"
	}
	return "denied"
}

// TrackerStatus is the lifecycle state of the location tracker.
type TrackerStatus string

const (
	TrackerIdle        TrackerStatus = "idle"
	TrackerWaiting     TrackerStatus = "waiting"
	TrackerTracking    TrackerStatus = "tracking"
	TrackerUnavailable TrackerStatus = "unavailable"
	TrackerStopped     TrackerStatus = "stopped"
)

// TrackerState is a snapshot of the tracker's UI-consumable state.
type TrackerState struct {
	Status   TrackerStatus   `json:"status"`
	Message  string          `json:"message,omitempty"`
	Sample   *PositionSample `json:"sample,omitempty"`
	Viewport *Viewport       `json:"viewport,omitempty"`
	Updates  uint64          `json:"updates"`
}
