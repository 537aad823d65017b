package vpm

import "testing"

func TestBarometricPressureBarAtSeaLevel(t *testing.T) {
	got := BarometricPressureBar(0)
	want := 1.01325
	if diff := got - want; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("BarometricPressureBar(0) = %v, want ≈ %v", got, want)
	}
}

func TestBarometricPressureBarDecreasesWithAltitude(t *testing.T) {
	sea := BarometricPressureBar(0)
	alt := BarometricPressureBar(3000)
	if alt >= sea {
		t.Errorf("expected pressure at 3000m (%v) to be lower than sea level (%v)", alt, sea)
	}
}

func TestBarometricPressureBarEverest(t *testing.T) {
	// Roughly a third of sea-level pressure at the summit of Everest.
	got := BarometricPressureBar(8848)
	if got <= 0 || got > 0.4 {
		t.Errorf("BarometricPressureBar(8848) = %v, expected a small fraction of sea-level pressure", got)
	}
}
