package track

import "time"

// Coordinate is a geodetic latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// TrackPoint represents a single timestamped sample of a GPS track.
// Points are immutable once constructed; a parsed sequence owns its
// points exclusively.
type TrackPoint struct {
	Coordinate
	Elevation float64   // meters, 0 when the source omits it
	Time      time.Time // wall clock at parse time when the source omits it
}
