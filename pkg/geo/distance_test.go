package geo

import (
	"math"
	"testing"
)

func TestDistanceSymmetric(t *testing.T) {
	paris := Coordinate{Lat: 48.8566, Lng: 2.3522}
	london := Coordinate{Lat: 51.5074, Lng: -0.1278}

	if Distance(paris, london) != Distance(london, paris) {
		t.Errorf("Distance is not symmetric: %f vs %f", Distance(paris, london), Distance(london, paris))
	}
}

func TestDistanceIdenticalPoints(t *testing.T) {
	p := Coordinate{Lat: 48.8566, Lng: 2.3522}
	if d := Distance(p, p); d != 0 {
		t.Errorf("Expected 0 for identical points, got %f", d)
	}
}

func TestDistanceParisLondon(t *testing.T) {
	paris := Coordinate{Lat: 48.8566, Lng: 2.3522}
	london := Coordinate{Lat: 51.5074, Lng: -0.1278}

	// Great-circle distance is about 343.5 km.
	d := Distance(paris, london)
	if d < 340000 || d > 347000 {
		t.Errorf("Expected roughly 343500m between Paris and London, got %f", d)
	}
}

func TestDistanceNaNPropagates(t *testing.T) {
	a := Coordinate{Lat: math.NaN(), Lng: 0}
	b := Coordinate{Lat: 0, Lng: 0}
	if !math.IsNaN(Distance(a, b)) {
		t.Errorf("Expected NaN to propagate")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		lat, lng string
		want     Coordinate
		ok       bool
	}{
		{"48.8566", "2.3522", Coordinate{Lat: 48.8566, Lng: 2.3522}, true},
		{"-33.9", "151.2", Coordinate{Lat: -33.9, Lng: 151.2}, true},
		{"", "2.3522", Coordinate{}, false},
		{"48.8566", "", Coordinate{}, false},
		{"abc", "2.3522", Coordinate{}, false},
		{"48.8566", "east", Coordinate{}, false},
	}

	for _, tt := range tests {
		got, ok := Parse(tt.lat, tt.lng)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Parse(%q, %q) = %v, %v; want %v, %v", tt.lat, tt.lng, got, ok, tt.want, tt.ok)
		}
	}
}
