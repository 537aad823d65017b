package buhlmann

import (
	"math"
	"testing"

	"github.com/m5lapp/decoplan/environment"
)

func TestTables(t *testing.T) {
	tests := []struct {
		name   string
		table  TableSet
		str    string
		c1n2b  float64
		c4heht float64
		c8n2a  float64
		c13n2a float64
	}{
		{name: "ZHL16A", table: ZHL16A, str: "ZH-L16A", c1n2b: 0.5050, c4heht: 7.0, c8n2a: 0.4701, c13n2a: 0.2971},
		{name: "ZHL16B", table: ZHL16B, str: "ZH-L16B", c1n2b: 0.5240, c4heht: 6.99, c8n2a: 0.4443, c13n2a: 0.2828},
		{name: "ZHL16C", table: ZHL16C, str: "ZH-L16C", c1n2b: 0.5240, c4heht: 6.99, c8n2a: 0.4500, c13n2a: 0.2850},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.table.String(); got != tt.str {
				t.Errorf("want %s; got %s", tt.str, got)
			}
			coefs := Tables[tt.table]
			if coefs[0].N2B != tt.c1n2b {
				t.Errorf("compartment 1 N2B: want %v; got %v", tt.c1n2b, coefs[0].N2B)
			}
			if coefs[3].HeHt != tt.c4heht {
				t.Errorf("compartment 4 HeHt: want %v; got %v", tt.c4heht, coefs[3].HeHt)
			}
			if coefs[7].N2A != tt.c8n2a {
				t.Errorf("compartment 8 N2A: want %v; got %v", tt.c8n2a, coefs[7].N2A)
			}
			if coefs[12].N2A != tt.c13n2a {
				t.Errorf("compartment 13 N2A: want %v; got %v", tt.c13n2a, coefs[12].N2A)
			}
		})
	}
}

func TestNDLAirAt30Meters(t *testing.T) {
	p := NewPlan(ZHL16B, environment.SurfacePressureSeaLevel, false)
	if err := p.AddBottomGas("air", 0.21, 0.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ndl, err := p.NDL(30, "air", 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const want = 25
	if math.Abs(float64(ndl-want)) > 1.0 {
		t.Errorf("want NDL within 1 minute of %d; got %d", want, ndl)
	}
}

func TestCalculateDecompressionScenario(t *testing.T) {
	p := NewPlan(ZHL16B, environment.SurfacePressureSeaLevel, false)
	if err := p.AddBottomGas("21/35", 0.21, 0.35); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.AddDecoGas("50%", 0.5, 0.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := p.AddDepthChange(0, 50, "21/35", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.AddFlat(50, "21/35", 25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	segs, err := p.CalculateDecompression(false, 0.2, 0.8, 1.6, 30, 0, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segs) == 0 {
		t.Fatal("want a non-empty schedule")
	}

	last := segs[len(segs)-1]
	if last.EndDepth != 0 {
		t.Errorf("want the last segment to end at the surface; got %v", last.EndDepth)
	}

	sawDecoGas := false
	for _, s := range segs[len(p.Segments):] {
		if s.GasLabel == "50%" {
			sawDecoGas = true
		}
		if s.IsFlat() && s.StartDepth > 0 {
			if mod := math.Mod(s.StartDepth, 3.0); mod != 0 {
				t.Errorf("want every deco stop depth to be a multiple of 3m; got %v", s.StartDepth)
			}
		}
	}
	if !sawDecoGas {
		t.Error("want the schedule to include a deco-gas switch to 50%")
	}
}

func TestBestDecoGasSwitchSelection(t *testing.T) {
	p := NewPlan(ZHL16C, environment.SurfacePressureSeaLevel, false)
	if err := p.AddDecoGas("50%", 0.5, 0.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.AddDecoGas("O2", 1.0, 0.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	label, _, ok := p.BestDecoGas(21, 1.6, 100)
	if !ok || label != "50%" {
		t.Errorf("want 50%% to be selected at 21m; got %s (ok=%v)", label, ok)
	}

	label, _, ok = p.BestDecoGas(6, 1.6, 100)
	if !ok || label != "O2" {
		t.Errorf("want O2 to be selected at 6m; got %s (ok=%v)", label, ok)
	}
}

func buildDecoPlan(t *testing.T) *Plan {
	t.Helper()
	p := NewPlan(ZHL16B, environment.SurfacePressureSeaLevel, false)
	if err := p.AddBottomGas("21/35", 0.21, 0.35); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.AddDecoGas("50%", 0.5, 0.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.AddDepthChange(0, 50, "21/35", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.AddFlat(50, "21/35", 25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestCalculateDecompressionIdempotent(t *testing.T) {
	p := buildDecoPlan(t)

	first, err := p.CalculateDecompression(false, 0.2, 0.8, 1.6, 30, 0, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.CalculateDecompression(false, 0.2, 0.8, 1.6, 30, 0, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("want identical schedule lengths; got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("segment %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestCeilingMonotoneInGF(t *testing.T) {
	p := NewPlan(ZHL16B, environment.SurfacePressureSeaLevel, false)
	if err := p.AddBottomGas("air", 0.21, 0.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.AddDepthChange(0, 40, "air", 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.AddFlat(40, "air", 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lowGF := p.CalculateCeiling(0.2)
	highGF := p.CalculateCeiling(1.0)

	if highGF > lowGF {
		t.Errorf("want ceiling(gf=1.0) <= ceiling(gf=0.2); got %v > %v", highGF, lowGF)
	}
}

func TestPressureMonotonicityOnDescent(t *testing.T) {
	p := NewPlan(ZHL16B, environment.SurfacePressureSeaLevel, false)
	if err := p.AddBottomGas("air", 0.21, 0.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	before := p.comps
	if err := p.AddDepthChange(0, 30, "air", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range p.comps {
		if p.comps[i].PTotal < before[i].PTotal {
			t.Errorf("compartment %d: want pressure to increase on descent; got %v -> %v",
				i, before[i].PTotal, p.comps[i].PTotal)
		}
	}
}
