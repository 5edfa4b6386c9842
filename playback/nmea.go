package playback

import (
	"fmt"
	"math"
	"time"
)

// NMEA emission of the playback position. The sentences describe a replayed
// fix, so the satellite and dilution fields carry fixed plausible values.

// calculateChecksum calculates the NMEA checksum for a sentence
func calculateChecksum(sentence string) string {
	var checksum byte
	for i := 1; i < len(sentence); i++ { // Skip the '$' character
		checksum ^= sentence[i]
	}
	return fmt.Sprintf("%02X", checksum)
}

// formatNMEA formats a complete NMEA sentence with checksum
func formatNMEA(sentence string) string {
	checksum := calculateChecksum(sentence)
	return fmt.Sprintf("%s*%s\r\n", sentence, checksum)
}

// nmeaLatLon converts decimal degrees to the NMEA DDMM.MMMM representation
// with hemisphere indicators.
func nmeaLatLon(lat, lon float64) (latStr, latHem, lonStr, lonHem string) {
	latDeg := int(math.Abs(lat))
	latMin := (math.Abs(lat) - float64(latDeg)) * 60
	latHem = "N"
	if lat < 0 {
		latHem = "S"
	}
	latStr = fmt.Sprintf("%02d%07.4f", latDeg, latMin)

	lonDeg := int(math.Abs(lon))
	lonMin := (math.Abs(lon) - float64(lonDeg)) * 60
	lonHem = "E"
	if lon < 0 {
		lonHem = "W"
	}
	lonStr = fmt.Sprintf("%03d%07.4f", lonDeg, lonMin)

	return latStr, latHem, lonStr, lonHem
}

// nmeaSentences generates the sentence set describing a playback position.
func nmeaSentences(pos Position) []string {
	return []string{
		generateGGA(pos),
		generateRMC(pos),
		generateVTG(pos),
	}
}

// generateGGA generates a GGA (Global Positioning System Fix Data) sentence
func generateGGA(pos Position) string {
	timeStr := timestampOrNow(pos.Time).UTC().Format("150405") // HHMMSS
	latStr, latHem, lonStr, lonHem := nmeaLatLon(pos.Lat, pos.Lon)

	quality := "1" // 1 = GPS fix
	numSats := "08"
	hdop := "1.2"
	altitude := fmt.Sprintf("%.1f", pos.Elevation)

	sentence := fmt.Sprintf("$GPGGA,%s,%s,%s,%s,%s,%s,%s,%s,%s,M,0.0,M,,",
		timeStr,
		latStr, latHem,
		lonStr, lonHem,
		quality, numSats, hdop,
		altitude)

	return formatNMEA(sentence)
}

// generateRMC generates an RMC (Recommended Minimum) sentence
func generateRMC(pos Position) string {
	utc := timestampOrNow(pos.Time).UTC()
	timeStr := utc.Format("150405") // HHMMSS
	dateStr := utc.Format("020106") // DDMMYY
	latStr, latHem, lonStr, lonHem := nmeaLatLon(pos.Lat, pos.Lon)

	status := "A" // A = Active, V = Void
	speedKnots := fmt.Sprintf("%.1f", pos.SpeedKmh/1.852)
	course := fmt.Sprintf("%.1f", pos.Heading)
	mode := "A" // A = Autonomous, D = DGPS, E = DR

	sentence := fmt.Sprintf("$GPRMC,%s,%s,%s,%s,%s,%s,%s,%s,%s,,,%s",
		timeStr, status,
		latStr, latHem,
		lonStr, lonHem,
		speedKnots, course, dateStr,
		mode)

	return formatNMEA(sentence)
}

// generateVTG generates a VTG (Track Made Good and Ground Speed) sentence
func generateVTG(pos Position) string {
	courseTrue := fmt.Sprintf("%.1f", pos.Heading)
	speedKnots := fmt.Sprintf("%.1f", pos.SpeedKmh/1.852)
	speedKmh := fmt.Sprintf("%.1f", pos.SpeedKmh)

	sentence := fmt.Sprintf("$GPVTG,%s,T,,M,%s,N,%s,K,A",
		courseTrue, speedKnots, speedKmh)

	return formatNMEA(sentence)
}

// timestampOrNow guards against zero-value point timestamps in sentences.
func timestampOrNow(ts time.Time) time.Time {
	if ts.IsZero() {
		return time.Now()
	}
	return ts
}
