package track

import "math"

// earthRadius is the mean Earth radius in meters used for spherical
// distance calculations.
const earthRadius = 6371000.0

// Distance calculates the great-circle distance between two coordinates in
// meters using the Haversine formula.
func Distance(from, to Coordinate) float64 {
	lat1Rad := from.Lat * math.Pi / 180
	lat2Rad := to.Lat * math.Pi / 180
	deltaLat := (to.Lat - from.Lat) * math.Pi / 180
	deltaLon := (to.Lon - from.Lon) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// Bearing calculates the initial forward azimuth from one coordinate to the
// next along the great circle connecting them, in degrees. The result is the
// raw atan2 output and may be negative; no normalization to [0,360) is
// performed. Coincident points yield 0.
func Bearing(from, to Coordinate) float64 {
	lat1Rad := from.Lat * math.Pi / 180
	lat2Rad := to.Lat * math.Pi / 180
	deltaLonRad := (to.Lon - from.Lon) * math.Pi / 180

	y := math.Sin(deltaLonRad) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) - math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(deltaLonRad)

	return math.Atan2(y, x) * 180 / math.Pi
}
