package vpm

import (
	"testing"

	"github.com/m5lapp/decoplan/buhlmann"
)

func buildVPMDecoPlan(t *testing.T) *Plan {
	t.Helper()
	p, err := NewPlan(DefaultSettings(), false, 1.01325)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	if err := p.AddBottomGas("2135", 0.21, 0.35); err != nil {
		t.Fatalf("AddBottomGas: %v", err)
	}
	if err := p.AddDecoGas("50%", 0.5, 0); err != nil {
		t.Fatalf("AddDecoGas: %v", err)
	}
	if err := p.AddDepthChange(0, 50, "2135", 5); err != nil {
		t.Fatalf("AddDepthChange: %v", err)
	}
	if err := p.AddFlat(50, "2135", 25); err != nil {
		t.Fatalf("AddFlat: %v", err)
	}
	return p
}

func TestVPMScenarioRunsLongerThanBuhlmannAtGFHigh1(t *testing.T) {
	vp := buildVPMDecoPlan(t)
	vpmSegs, err := vp.CalculateDecompression(false, 1.6, 30, 0, "")
	if err != nil {
		t.Fatalf("vpm CalculateDecompression: %v", err)
	}

	bp := buhlmann.NewPlan(buhlmann.ZHL16B, 1.01325, false)
	if err := bp.AddBottomGas("2135", 0.21, 0.35); err != nil {
		t.Fatalf("AddBottomGas: %v", err)
	}
	if err := bp.AddDecoGas("50%", 0.5, 0); err != nil {
		t.Fatalf("AddDecoGas: %v", err)
	}
	if err := bp.AddDepthChange(0, 50, "2135", 5); err != nil {
		t.Fatalf("AddDepthChange: %v", err)
	}
	if err := bp.AddFlat(50, "2135", 25); err != nil {
		t.Fatalf("AddFlat: %v", err)
	}
	buhlSegs, err := bp.CalculateDecompression(false, 1.0, 1.0, 1.6, 30, 0, "")
	if err != nil {
		t.Fatalf("buhlmann CalculateDecompression: %v", err)
	}

	var vpmTotal, buhlTotal float64
	for _, s := range vpmSegs {
		vpmTotal += s.Minutes
	}
	for _, s := range buhlSegs {
		buhlTotal += s.Minutes
	}

	if vpmTotal <= buhlTotal {
		t.Errorf("expected VPM-B runtime (%v) to exceed Bühlmann gf_high=1.0 runtime (%v)", vpmTotal, buhlTotal)
	}

	if len(vpmSegs) == 0 || len(buhlSegs) == 0 {
		t.Fatalf("expected non-empty schedules, got vpm=%d buhl=%d segments", len(vpmSegs), len(buhlSegs))
	}
	if vpmSegs[len(vpmSegs)-1].EndDepth != 0 {
		t.Errorf("VPM schedule should end at the surface, last segment ends at %v", vpmSegs[len(vpmSegs)-1].EndDepth)
	}
}

func TestVPMCalculateDecompressionIdempotent(t *testing.T) {
	p := buildVPMDecoPlan(t)
	first, err := p.CalculateDecompression(false, 1.6, 30, 0, "")
	if err != nil {
		t.Fatalf("first CalculateDecompression: %v", err)
	}
	second, err := p.CalculateDecompression(false, 1.6, 30, 0, "")
	if err != nil {
		t.Fatalf("second CalculateDecompression: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("segment count differs between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("segment %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestVPMRejectsInvalidGasSum(t *testing.T) {
	p, err := NewPlan(DefaultSettings(), false, 1.01325)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	if err := p.AddBottomGas("bad", 0.51, 0.50); err == nil {
		t.Fatal("expected a ConfigurationError for a gas mix summing to 1.01")
	}
}
