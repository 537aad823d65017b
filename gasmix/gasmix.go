// Package gasmix represents breathing gas mixtures and the derived queries
// the solvers need from them: maximum operating depth (MOD), equivalent
// narcotic depth (END) and equivalent air depth (EAD).
package gasmix

import (
	"fmt"
	"math"

	"github.com/m5lapp/decoplan/decoerr"
	"github.com/m5lapp/decoplan/environment"
	"github.com/m5lapp/decoplan/physics"
)

// GasMix represents a breathing gas mixture with a given fraction of Helium
// (FHe), Nitrogen (FN2) and Oxygen (FO2). FHe and/or FN2 can be zero
// depending on the type of mix (Air, Nitrox, Heliox, pure O2...).
type GasMix struct {
	FHe float64
	FN2 float64
	FO2 float64
}

// MixType represents the category a GasMix falls into.
type MixType int

const (
	Unknown MixType = iota
	Air
	Heliox
	Nitrox
	Trimix
)

func (mt MixType) String() string {
	switch mt {
	case Air:
		return "Air"
	case Heliox:
		return "Heliox"
	case Nitrox:
		return "Nitrox"
	case Trimix:
		return "Trimix"
	}
	return "Unknown Gas Mix Type"
}

const fractionTolerance = 1e-6

// Gas is the spec-mandated factory: given fO2 and fHe it derives fN2 and
// validates the invariants of spec.md §7 (each fraction in [0, 1], the
// three fractions summing to 1). NewNitroxMix/NewTrimixMix/NewHelioxMix
// below are convenience wrappers around it; NewAirMix builds its fixed
// 21/79 mix directly.
func Gas(fO2, fHe float64) (GasMix, error) {
	gm := GasMix{FO2: fO2, FHe: fHe, FN2: 1.0 - fO2 - fHe}
	if err := gm.validate(); err != nil {
		return GasMix{}, err
	}
	return gm, nil
}

func (gm GasMix) validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{{"fO2", gm.FO2}, {"fHe", gm.FHe}, {"fN2", gm.FN2}} {
		if f.value < 0 || f.value > 1 {
			return decoerr.NewConfigurationError(f.name, fmt.Sprintf("must be in [0, 1]; got %v", f.value))
		}
	}
	if sum := gm.FO2 + gm.FHe + gm.FN2; math.Abs(sum-1.0) > fractionTolerance {
		return decoerr.NewConfigurationError("fO2+fHe+fN2", fmt.Sprintf("fractions must sum to 1.0; got %v", sum))
	}
	return nil
}

// NewAirMix is a convenience constructor for a mix of pure air.
func NewAirMix() *GasMix {
	gm := GasMix{FN2: 0.79, FO2: 0.21}
	return &gm
}

// NewNitroxMix is a constructor for a Nitrox mix with a given fraction of
// oxygen; the fraction of nitrogen is derived from it.
func NewNitroxMix(fo2 float64) (*GasMix, error) {
	gm, err := Gas(fo2, 0.0)
	if err != nil {
		return nil, err
	}
	return &gm, nil
}

// NewTrimixMix is a constructor for a Trimix mix with given fractions of
// oxygen and helium; the fraction of nitrogen is derived from them.
func NewTrimixMix(fo2, fhe float64) (*GasMix, error) {
	gm, err := Gas(fo2, fhe)
	if err != nil {
		return nil, err
	}
	return &gm, nil
}

// NewHelioxMix is a constructor for a Heliox mix with a given fraction of
// oxygen; the fraction of helium is derived from it.
func NewHelioxMix(fo2 float64) (*GasMix, error) {
	gm, err := Gas(fo2, 1.0-fo2)
	if err != nil {
		return nil, err
	}
	return &gm, nil
}

// NewNitroxBestMix returns the Nitrox mix that maximises oxygen content
// without exceeding maxPPO2 at the given depth, floored to two decimal
// places for clarity.
func NewNitroxBestMix(depth, maxPPO2 float64, fresh bool, env environment.Environment) (*GasMix, error) {
	p := physics.DepthToPressure(depth, fresh, env)
	bestMix := math.Floor((maxPPO2/p)*100.0) / 100.0
	return NewNitroxMix(bestMix)
}

// MixType classifies the gas mix.
func (gm *GasMix) MixType() MixType {
	if gm.FO2 == 0.21 && gm.FN2 == 0.79 && gm.FHe == 0.0 {
		return Air
	} else if gm.FHe > 0.0 {
		if gm.FN2 == 0.0 {
			return Heliox
		} else if gm.FN2 > 0.0 {
			return Trimix
		}
	} else if gm.FHe == 0.0 {
		return Nitrox
	}
	return Unknown
}

// MOD returns the gas mix's maximum operating depth in metres for the given
// maximum partial pressure of oxygen, in bar.
func (gm *GasMix) MOD(maxPPO2 float64, fresh bool, env environment.Environment) float64 {
	p := maxPPO2 / gm.FO2
	return math.Round(physics.PressureToDepth(p, fresh, env))
}

// END returns the gas mix's equivalent narcotic depth in metres at the given
// depth, treating helium as non-narcotic (narcotic fraction = fO2 + fN2).
func (gm *GasMix) END(depth float64, fresh bool, env environment.Environment) float64 {
	d := math.Abs(depth)
	narcoticFraction := gm.FO2 + gm.FN2
	p := physics.DepthToPressure(d, fresh, env) * narcoticFraction
	return physics.PressureToDepth(p, fresh, env)
}

// EAD returns the gas mix's equivalent air depth in metres at the given
// depth: the depth at which breathing air produces the same partial
// pressure of nitrogen as this mix does at depth.
func (gm *GasMix) EAD(depth float64, fresh bool, env environment.Environment) float64 {
	d := math.Abs(depth)
	pN2 := physics.DepthToPressure(d, fresh, env) * gm.FN2
	return physics.PressureToDepth(pN2/0.79, fresh, env)
}

// PPHe returns the partial pressure of helium in the gas mix at depth.
func (gm *GasMix) PPHe(depth float64, fresh bool, env environment.Environment) float64 {
	return physics.GasPressureBreathing(math.Abs(depth), gm.FHe, fresh, env)
}

// PPN2 returns the partial pressure of nitrogen in the gas mix at depth.
func (gm *GasMix) PPN2(depth float64, fresh bool, env environment.Environment) float64 {
	return physics.GasPressureBreathing(math.Abs(depth), gm.FN2, fresh, env)
}

// PPO2 returns the partial pressure of oxygen in the gas mix at depth.
func (gm *GasMix) PPO2(depth float64, fresh bool, env environment.Environment) float64 {
	return physics.GasPressureBreathing(math.Abs(depth), gm.FO2, fresh, env)
}
