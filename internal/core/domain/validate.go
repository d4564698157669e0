package domain

import (
	"math"
	"strconv"
	"strings"
)

// NormalizeName trims a point name and rejects it when nothing is left.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

// ParseDegrees parses a decimal coordinate component typed by the user.
// Only plain decimal notation is accepted; hex floats, Inf and NaN are rejected.
func ParseDegrees(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrIncompleteFields
	}
	if strings.ContainsAny(s, "xXpP_") {
		return 0, ErrIncompleteFields
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrIncompleteFields
	}
	return v, nil
}

// Parse validates the form and returns the trimmed name and coordinate.
// The name is checked first so an empty form reports ErrEmptyName.
func (e ManualEntry) Parse() (string, GeoPoint, error) {
	name, err := NormalizeName(e.Name)
	if err != nil {
		return "", GeoPoint{}, err
	}
	lat, err := ParseDegrees(e.Latitude)
	if err != nil {
		return "", GeoPoint{}, err
	}
	lon, err := ParseDegrees(e.Longitude)
	if err != nil {
		return "", GeoPoint{}, err
	}
	return name, GeoPoint{Lat: lat, Lon: lon}, nil
}
