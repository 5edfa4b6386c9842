package track

import (
	"math"
	"testing"
)

func TestDistanceZero(t *testing.T) {
	p := Coordinate{Lat: 37.7749, Lon: -122.4194}
	if d := Distance(p, p); d != 0 {
		t.Errorf("distance between identical points should be 0, got %v", d)
	}
}

func TestDistanceOneDegreeLongitudeAtEquator(t *testing.T) {
	// One degree of arc on a 6371 km sphere is about 111.195 km.
	d := Distance(Coordinate{0, 0}, Coordinate{0, 1})
	expected := earthRadius * math.Pi / 180

	if math.Abs(d-expected) > 1.0 {
		t.Errorf("expected distance %.1f m, got %.1f m", expected, d)
	}
}

func TestDistanceSymmetric(t *testing.T) {
	a := Coordinate{Lat: 22.66, Lon: 114.04}
	b := Coordinate{Lat: 22.67, Lon: 114.05}

	if d1, d2 := Distance(a, b), Distance(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Errorf("distance should be symmetric: %v vs %v", d1, d2)
	}
}

func TestDistanceMonotonic(t *testing.T) {
	origin := Coordinate{Lat: 22.66, Lon: 114.04}
	near := Coordinate{Lat: 22.661, Lon: 114.04}
	far := Coordinate{Lat: 22.67, Lon: 114.04}

	if Distance(origin, near) >= Distance(origin, far) {
		t.Error("a farther point should yield a larger distance")
	}
}

func TestBearingCardinalDirections(t *testing.T) {
	origin := Coordinate{0, 0}
	tests := []struct {
		name     string
		to       Coordinate
		expected float64
	}{
		{"north", Coordinate{1, 0}, 0},
		{"east", Coordinate{0, 1}, 90},
		{"south", Coordinate{-1, 0}, 180},
		{"west", Coordinate{0, -1}, -90},
	}

	for _, tt := range tests {
		got := Bearing(origin, tt.to)
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("%s: expected bearing %v, got %v", tt.name, tt.expected, got)
		}
	}
}

func TestBearingNotNormalized(t *testing.T) {
	// Westward bearings stay negative; the raw atan2 output is kept.
	got := Bearing(Coordinate{10, 10}, Coordinate{10, 9})
	if got >= 0 {
		t.Errorf("expected a negative bearing heading west, got %v", got)
	}
}

func TestBearingCoincidentPoints(t *testing.T) {
	p := Coordinate{Lat: 22.66, Lon: 114.04}
	got := Bearing(p, p)

	if math.IsNaN(got) {
		t.Fatal("bearing between coincident points should not be NaN")
	}
	if got != 0 {
		t.Errorf("expected bearing 0 for coincident points, got %v", got)
	}
}
