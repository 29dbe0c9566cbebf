package geofence

import (
	"testing"

	"github.com/azvmotors/fleetcore/core/model"
)

func unitSquare(t *testing.T) Polygon {
	t.Helper()
	p, err := New([]model.Coordinates{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 1},
		{Lat: 1, Lng: 1},
		{Lat: 1, Lng: 0},
	})
	if err != nil {
		t.Fatalf("polygon: %v", err)
	}
	return p
}

func TestContains_UnitSquare(t *testing.T) {
	p := unitSquare(t)
	cases := []struct {
		name     string
		lat, lng float64
		want     bool
	}{
		{"center", 0.5, 0.5, true},
		{"outside", 2, 2, false},
		{"outside negative", -0.5, 0.5, false},
		{"near edge inside", 0.999, 0.5, true},
		{"far east", 0.5, 5, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.Contains(tc.lat, tc.lng); got != tc.want {
				t.Errorf("Contains(%v,%v) = %v, want %v", tc.lat, tc.lng, got, tc.want)
			}
		})
	}
}

func TestContains_WindingInvariant(t *testing.T) {
	cw, err := New([]model.Coordinates{
		{Lat: 0, Lng: 0},
		{Lat: 1, Lng: 0},
		{Lat: 1, Lng: 1},
		{Lat: 0, Lng: 1},
	})
	if err != nil {
		t.Fatalf("polygon: %v", err)
	}
	ccw := unitSquare(t)
	points := []model.Coordinates{
		{Lat: 0.5, Lng: 0.5},
		{Lat: 2, Lng: 2},
		{Lat: 0.1, Lng: 0.9},
		{Lat: -1, Lng: -1},
	}
	for _, pt := range points {
		if cw.ContainsPoint(pt) != ccw.ContainsPoint(pt) {
			t.Errorf("winding changed verdict for %+v", pt)
		}
	}
}

func TestContains_Concave(t *testing.T) {
	// L-shaped zone: the notch at the top right is outside.
	p, err := New([]model.Coordinates{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 2},
		{Lat: 1, Lng: 2},
		{Lat: 1, Lng: 1},
		{Lat: 2, Lng: 1},
		{Lat: 2, Lng: 0},
	})
	if err != nil {
		t.Fatalf("polygon: %v", err)
	}
	if !p.Contains(0.5, 1.5) {
		t.Error("point in the wide arm should be inside")
	}
	if p.Contains(1.5, 1.5) {
		t.Error("point in the notch should be outside")
	}
}

func TestNew_RejectsDegenerate(t *testing.T) {
	if _, err := New([]model.Coordinates{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}}); err == nil {
		t.Fatal("expected error for 2-vertex polygon")
	}
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for empty polygon")
	}
}
