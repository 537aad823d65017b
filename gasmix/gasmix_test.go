package gasmix

import (
	"math"
	"testing"

	"github.com/m5lapp/decoplan/environment"
)

var seaLevel = environment.Default()

func TestMixType(t *testing.T) {
	tests := []struct {
		name string
		fhe  float64
		fn2  float64
		fo2  float64
		want MixType
		str  string
	}{
		{name: "Air", fhe: 0.0, fn2: 0.79, fo2: 0.21, want: Air, str: "Air"},
		{name: "Nitrox32", fhe: 0.0, fn2: 0.68, fo2: 0.32, want: Nitrox, str: "Nitrox"},
		{name: "Nitrox50", fhe: 0.0, fn2: 0.5, fo2: 0.5, want: Nitrox, str: "Nitrox"},
		{name: "Nitrox100", fhe: 0.0, fn2: 0.0, fo2: 1.0, want: Nitrox, str: "Nitrox"},
		{name: "Trimix3040", fhe: 0.4, fn2: 0.3, fo2: 0.3, want: Trimix, str: "Trimix"},
		{name: "Trimix2150", fhe: 0.5, fn2: 0.29, fo2: 0.21, want: Trimix, str: "Trimix"},
		{name: "Trimix5030", fhe: 0.5, fn2: 0.3, fo2: 0.5, want: Trimix, str: "Trimix"},
		{name: "Heliox2179", fhe: 0.79, fn2: 0.0, fo2: 0.21, want: Heliox, str: "Heliox"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gm := GasMix{FHe: tt.fhe, FN2: tt.fn2, FO2: tt.fo2}
			mt := gm.MixType()

			if mt != tt.want {
				t.Errorf("want %v; got %v", tt.want, mt)
			}
			if mt.String() != tt.str {
				t.Errorf("want string %s; got %s", tt.str, mt.String())
			}
		})
	}
}

func TestGasFractionsAlwaysSumToOne(t *testing.T) {
	tests := []struct {
		name     string
		fo2, fhe float64
	}{
		{"air", 0.21, 0.0},
		{"ean32", 0.32, 0.0},
		{"trimix 18/45", 0.18, 0.45},
		{"heliox 21/79", 0.21, 0.79},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gm, err := Gas(tt.fo2, tt.fhe)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sum := gm.FO2 + gm.FHe + gm.FN2; math.Abs(sum-1.0) > 1e-9 {
				t.Errorf("want fractions to sum to 1; got %v", sum)
			}
		})
	}
}

func TestGasRejectsInvalidFractions(t *testing.T) {
	tests := []struct {
		name     string
		fo2, fhe float64
	}{
		{"negative fO2", -0.1, 0.0},
		{"sum above 1", 0.5, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Gas(tt.fo2, tt.fhe); err == nil {
				t.Error("want an error for an invalid gas mix")
			}
		})
	}
}

func TestMOD(t *testing.T) {
	tests := []struct {
		name string
		fo2  float64
		ppo2 float64
		want float64
	}{
		{name: "21% @ 1.2", fo2: 0.21, ppo2: 1.2, want: 47.0},
		{name: "21% @ 1.6", fo2: 0.21, ppo2: 1.6, want: 66.0},
		{name: "30% @ 1.4", fo2: 0.30, ppo2: 1.4, want: 36.0},
		{name: "30% @ 1.6", fo2: 0.30, ppo2: 1.6, want: 43.0},
		{name: "32% @ 1.4", fo2: 0.32, ppo2: 1.4, want: 33.0},
		{name: "32% @ 1.6", fo2: 0.32, ppo2: 1.6, want: 40.0},
		{name: "40% @ 1.3", fo2: 0.40, ppo2: 1.3, want: 22.0},
		{name: "40% @ 1.4", fo2: 0.40, ppo2: 1.4, want: 25.0},
		{name: "40% @ 1.6", fo2: 0.40, ppo2: 1.6, want: 30.0},
		{name: "100% @ 1.4", fo2: 1.00, ppo2: 1.4, want: 4.0},
		{name: "100% @ 1.6", fo2: 1.00, ppo2: 1.6, want: 6.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gm, err := NewNitroxMix(tt.fo2)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mod := gm.MOD(tt.ppo2, false, seaLevel); mod != tt.want {
				t.Errorf("want %v; got %v", tt.want, mod)
			}
		})
	}
}

func TestEAD(t *testing.T) {
	tests := []struct {
		name  string
		fo2   float64
		depth float64
		want  float64
	}{
		{name: "32% @ 30m", fo2: 0.32, depth: 30, want: 24.4443},
		{name: "32% @ 40m", fo2: 0.32, depth: 40, want: 33.0519},
		{name: "36% @ 30m", fo2: 0.36, depth: 30, want: 22.424},
		{name: "50% @ 18m", fo2: 0.50, depth: 18, want: 7.7582},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gm, err := NewNitroxMix(tt.fo2)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := gm.EAD(tt.depth, false, seaLevel); math.Abs(got-tt.want) > 1e-3 {
				t.Errorf("want %v; got %v", tt.want, got)
			}
		})
	}
}

func TestEND(t *testing.T) {
	tests := []struct {
		name     string
		fo2, fhe float64
		depth    float64
		want     float64
	}{
		{name: "18/45 @ 60m", fo2: 0.18, fhe: 0.45, depth: 60, want: 28.5449},
		{name: "21/35 @ 50m", fo2: 0.21, fhe: 0.35, depth: 50, want: 29.0349},
		{name: "18/45 @ 45m", fo2: 0.18, fhe: 0.45, depth: 45, want: 20.2949},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gm, err := NewTrimixMix(tt.fo2, tt.fhe)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := gm.END(tt.depth, false, seaLevel); math.Abs(got-tt.want) > 1e-3 {
				t.Errorf("want %v; got %v", tt.want, got)
			}
		})
	}
}
