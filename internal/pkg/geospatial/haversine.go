package geospatial

import "math"

// EarthRadiusMeters is the mean Earth radius used for all distance math.
const EarthRadiusMeters = 6_371_000.0

// Haversine returns the great-circle distance in meters between two
// coordinates given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	φ1, φ2 := radians(lat1), radians(lat2)
	h := hav(φ2-φ1) + math.Cos(φ1)*math.Cos(φ2)*hav(radians(lon2-lon1))
	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(math.Min(1, h)))
}

// Destination returns the point reached by travelling distance meters from
// (lat, lon) on the given bearing (degrees clockwise from north).
func Destination(lat, lon, bearing, distance float64) (float64, float64) {
	δ := distance / EarthRadiusMeters
	θ := radians(bearing)
	φ1, λ1 := radians(lat), radians(lon)

	φ2 := math.Asin(math.Sin(φ1)*math.Cos(δ) + math.Cos(φ1)*math.Sin(δ)*math.Cos(θ))
	λ2 := λ1 + math.Atan2(math.Sin(θ)*math.Sin(δ)*math.Cos(φ1), math.Cos(δ)-math.Sin(φ1)*math.Sin(φ2))

	return degrees(φ2), math.Remainder(degrees(λ2), 360)
}

func hav(θ float64) float64 {
	s := math.Sin(θ / 2)
	return s * s
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
