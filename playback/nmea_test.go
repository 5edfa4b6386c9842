package playback

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"go-track-player/track"
)

func testPosition() Position {
	return Position{
		Coordinate: track.Coordinate{Lat: 37.7749, Lon: -122.4194},
		Elevation:  50.0,
		SpeedKmh:   18.52, // exactly 10 knots
		Heading:    90.0,
		Time:       time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
	}
}

// verifyChecksum recomputes the checksum of a framed sentence.
func verifyChecksum(t *testing.T, sentence string) {
	t.Helper()

	trimmed := strings.TrimSuffix(sentence, "\r\n")
	star := strings.LastIndex(trimmed, "*")
	if star < 0 {
		t.Fatalf("sentence %q has no checksum delimiter", sentence)
	}

	var checksum byte
	for i := 1; i < star; i++ {
		checksum ^= trimmed[i]
	}

	got, err := strconv.ParseUint(trimmed[star+1:], 16, 8)
	if err != nil {
		t.Fatalf("sentence %q has unparsable checksum: %v", sentence, err)
	}
	if byte(got) != checksum {
		t.Errorf("sentence %q: expected checksum %02X, got %02X", sentence, checksum, got)
	}
}

func TestCalculateChecksum(t *testing.T) {
	// XOR of G, P, R, M, C.
	if got := calculateChecksum("$GPRMC"); got != "4B" {
		t.Errorf("expected checksum 4B, got %s", got)
	}
}

func TestFormatNMEA(t *testing.T) {
	sentence := formatNMEA("$GPRMC")

	if !strings.HasSuffix(sentence, "\r\n") {
		t.Error("sentence should end with CRLF")
	}
	if !strings.Contains(sentence, "*") {
		t.Error("sentence should contain a checksum delimiter")
	}
	verifyChecksum(t, sentence)
}

func TestGenerateRMC(t *testing.T) {
	sentence := generateRMC(testPosition())

	if !strings.HasPrefix(sentence, "$GPRMC,") {
		t.Fatalf("expected RMC prefix, got %q", sentence)
	}
	verifyChecksum(t, sentence)

	// 37.7749° N = 37° 46.494', 122.4194° W = 122° 25.164'.
	if !strings.Contains(sentence, "3746.4940,N") {
		t.Errorf("expected NMEA latitude in %q", sentence)
	}
	if !strings.Contains(sentence, "12225.1640,W") {
		t.Errorf("expected NMEA longitude in %q", sentence)
	}
	if !strings.Contains(sentence, "103045") {
		t.Errorf("expected time 103045 in %q", sentence)
	}
	if !strings.Contains(sentence, "150124") {
		t.Errorf("expected date 150124 in %q", sentence)
	}
	if !strings.Contains(sentence, ",10.0,") {
		t.Errorf("expected speed 10.0 knots in %q", sentence)
	}
}

func TestGenerateGGA(t *testing.T) {
	sentence := generateGGA(testPosition())

	if !strings.HasPrefix(sentence, "$GPGGA,") {
		t.Fatalf("expected GGA prefix, got %q", sentence)
	}
	verifyChecksum(t, sentence)

	if !strings.Contains(sentence, "50.0,M") {
		t.Errorf("expected altitude 50.0 in %q", sentence)
	}
}

func TestGenerateVTG(t *testing.T) {
	sentence := generateVTG(testPosition())

	if !strings.HasPrefix(sentence, "$GPVTG,") {
		t.Fatalf("expected VTG prefix, got %q", sentence)
	}
	verifyChecksum(t, sentence)

	if !strings.Contains(sentence, "10.0,N") {
		t.Errorf("expected speed in knots in %q", sentence)
	}
	if !strings.Contains(sentence, "18.5,K") {
		t.Errorf("expected speed in km/h in %q", sentence)
	}
	if !strings.Contains(sentence, "90.0,T") {
		t.Errorf("expected true course in %q", sentence)
	}
}

func TestNMEASentencesFraming(t *testing.T) {
	for _, sentence := range nmeaSentences(testPosition()) {
		if !strings.HasPrefix(sentence, "$") {
			t.Errorf("sentence %q should start with $", sentence)
		}
		if !strings.HasSuffix(sentence, "\r\n") {
			t.Errorf("sentence %q should end with CRLF", sentence)
		}
		verifyChecksum(t, sentence)
	}
}

func TestGenerateWithZeroTimestamp(t *testing.T) {
	pos := testPosition()
	pos.Time = time.Time{}

	// A zero timestamp falls back to the wall clock instead of year 1.
	sentence := generateRMC(pos)
	if strings.Contains(sentence, ",010101,") {
		t.Errorf("zero timestamp should not produce a year-1 date: %q", sentence)
	}
	verifyChecksum(t, sentence)
}
