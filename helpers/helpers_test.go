package helpers

import (
	"math"
	"testing"
)

func TestEqualFloat64(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want bool
	}{
		{"identical", 1.0, 1.0, true},
		{"within threshold", 1.0, 1.0 + 1e-12, true},
		{"outside threshold", 1.0, 1.1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EqualFloat64(tt.a, tt.b); got != tt.want {
				t.Errorf("want %v; got %v", tt.want, got)
			}
		})
	}
}

func TestDescOrAsc(t *testing.T) {
	tests := []struct {
		name       string
		fromD, toD float64
		want       float64
	}{
		{"descending", 0, 30, 1.0},
		{"ascending", 30, 0, -1.0},
		{"level", 18, 18, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DescOrAsc(tt.fromD, tt.toD); got != tt.want {
				t.Errorf("want %v; got %v", tt.want, got)
			}
		})
	}
}

func TestMetersFeetRoundTrip(t *testing.T) {
	for _, x := range []float64{0, 1, 30, 99.5, -12, 10000, -10000} {
		got := MetersToFeet(FeetToMeters(x))
		if math.Abs(got-x) > 1e-9 {
			t.Errorf("round trip failed for %v: got %v", x, got)
		}

		got = FeetToMeters(MetersToFeet(x))
		if math.Abs(got-x) > 1e-9 {
			t.Errorf("reverse round trip failed for %v: got %v", x, got)
		}
	}
}

func TestPressureUnitRoundTrip(t *testing.T) {
	for _, p := range []float64{0, 1, 2.8, 10.9, 34.235} {
		if got := PSIToBar(BarToPSI(p)); math.Abs(got-p) > 1e-9 {
			t.Errorf("bar/psi round trip failed for %v: got %v", p, got)
		}
	}
}
