package track

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// pending accumulates the fields of the track point currently being read.
// Lat and lon stay nil until their attributes parse cleanly; a point that
// closes without both is dropped.
type pending struct {
	lat       *float64
	lon       *float64
	elevation float64
	timestamp *time.Time
}

// Parse extracts the ordered track points from a GPX document. Malformed
// input is never fatal: broken points are skipped, a truncated document
// yields the points read so far, and input that is not GPX at all yields an
// empty sequence. When applyTransform is true each point's coordinate is
// converted to GCJ-02.
func Parse(data []byte, applyTransform bool) []TrackPoint {
	return ParseReader(bytes.NewReader(data), applyTransform)
}

// ParseReader is Parse for a streaming source. It walks the document in a
// single pass over the decoder's token events and keeps only the current
// point's pending fields in memory.
func ParseReader(r io.Reader, applyTransform bool) []TrackPoint {
	decoder := xml.NewDecoder(r)

	var (
		points  []TrackPoint
		current pending
		inPoint bool
		text    strings.Builder
	)

	for {
		token, err := decoder.Token()
		if err != nil {
			// io.EOF or malformed markup; either way the walk is over.
			return points
		}

		switch t := token.(type) {
		case xml.StartElement:
			text.Reset()
			switch t.Name.Local {
			case "trkpt", "rtept":
				inPoint = true
				current = pending{}
				for _, attr := range t.Attr {
					value, parseErr := strconv.ParseFloat(attr.Value, 64)
					if parseErr != nil {
						continue
					}
					switch attr.Name.Local {
					case "lat":
						current.lat = &value
					case "lon":
						current.lon = &value
					}
				}
			}

		case xml.CharData:
			text.Write(t)

		case xml.EndElement:
			switch t.Name.Local {
			case "ele":
				if !inPoint {
					break
				}
				if v, parseErr := strconv.ParseFloat(strings.TrimSpace(text.String()), 64); parseErr == nil {
					current.elevation = v
				}
			case "time":
				if !inPoint {
					break
				}
				if ts, parseErr := time.Parse(time.RFC3339, strings.TrimSpace(text.String())); parseErr == nil {
					current.timestamp = &ts
				}
			case "trkpt", "rtept":
				if inPoint && current.lat != nil && current.lon != nil {
					points = append(points, makePoint(current, applyTransform))
				}
				inPoint = false
				current = pending{}
			}
			text.Reset()
		}
	}
}

// ParseFile reads and parses a GPX file. The only error it can return is a
// failure to open the file; the content itself is handled by the same
// never-fatal rules as Parse.
func ParseFile(filename string, applyTransform bool) ([]TrackPoint, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open GPX file %s: %v", filename, err)
	}
	defer file.Close()

	return ParseReader(file, applyTransform), nil
}

func makePoint(p pending, applyTransform bool) TrackPoint {
	coord := Coordinate{Lat: *p.lat, Lon: *p.lon}
	if applyTransform {
		coord = Transform(coord.Lat, coord.Lon)
	}

	timestamp := time.Now()
	if p.timestamp != nil {
		timestamp = *p.timestamp
	}

	return TrackPoint{
		Coordinate: coord,
		Elevation:  p.elevation,
		Time:       timestamp,
	}
}
