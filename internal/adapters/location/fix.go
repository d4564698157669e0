package location

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/samirrijal/mygeo/internal/core/domain"
)

// Fix is the wire form of a position reading sent by a device.
type Fix struct {
	Lat      float64   `json:"lat"`
	Lon      float64   `json:"lon"`
	Accuracy *float64  `json:"accuracy,omitempty"`
	Time     time.Time `json:"time,omitempty"`
}

// Sample converts the fix, stamping it with now when the device sent no time.
func (f Fix) Sample(now time.Time) domain.PositionSample {
	ts := f.Time
	if ts.IsZero() {
		ts = now
	}
	return domain.PositionSample{
		Location: domain.GeoPoint{Lat: f.Lat, Lon: f.Lon},
		Accuracy: f.Accuracy,
		Time:     ts,
	}
}

// LoadTrack reads a JSON array of fixes from path.
func LoadTrack(path string) ([]Fix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read track: %w", err)
	}
	var fixes []Fix
	if err := json.Unmarshal(data, &fixes); err != nil {
		return nil, fmt.Errorf("parse track %s: %w", path, err)
	}
	if len(fixes) == 0 {
		return nil, fmt.Errorf("track %s is empty", path)
	}
	return fixes, nil
}
