package geo

import "math"

const earthRadiusMeters = 6371000

// Point is a GPS coordinate in decimal degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// DistanceMeters returns the great-circle distance between two coordinates
// using the haversine formula. NaN inputs propagate to the result.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))

	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Distance is DistanceMeters over two points.
func Distance(a, b Point) float64 {
	return DistanceMeters(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// Within reports whether b lies no further than maxMeters from a.
func Within(a, b Point, maxMeters float64) (float64, bool) {
	d := Distance(a, b)
	return d, d <= maxMeters
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
