// Package vpm implements the Varying Permeability Model (VPM-B) bubble
// decompression algorithm: critical bubble radii, crushing pressure tracked
// through the bottom phase, and an iterative critical-volume relaxation of
// the ascent schedule. It follows the same profile-loop/compartment-table
// shape as the buhlmann package, generalised to bubble mechanics instead of
// Haldanian M-values.
package vpm

import "math"

// CompartmentCount is the number of tissue compartments VPM-B tracks.
const CompartmentCount = 16

// N2HalfTimes and HeHalfTimes are the VPM-B compartment half-times in
// minutes, per spec.md §4.4.1.
var (
	N2HalfTimes = [CompartmentCount]float64{
		5, 8, 12.5, 18.5, 27, 38.3, 54.3, 77, 109, 146, 187, 239, 305, 390, 498, 635,
	}
	HeHalfTimes = [CompartmentCount]float64{
		1.88, 3.02, 4.72, 6.99, 10.21, 14.48, 20.53, 29.11, 41.20, 55.19, 70.69, 90.34, 115.29, 147.42, 188.24, 240.03,
	}
)

// n2K and heK return the per-compartment decay constant k = ln(2)/halfTime
// for nitrogen and helium respectively.
func n2K(compartment int) float64 { return math.Ln2 / N2HalfTimes[compartment] }
func heK(compartment int) float64 { return math.Ln2 / HeHalfTimes[compartment] }

// Physical constants of the VPM-B bubble model, per spec.md §4.4.3.
const (
	SurfaceTensionGamma     = 0.0179   // N/m
	SkinCompressionGammaC   = 0.257    // N/m
	GradientOnsetOfImperm   = 8.2      // atm
	DefaultRegenerationTau  = 20160.0  // minutes
	DefaultCritVolumeLambda = 6500.0   // fsw.min, converted per unit system
)

// UnitsFactor is the number of depth units of the chosen system, feet of
// seawater (fsw) or metres of seawater (msw), per standard atmosphere.
func UnitsFactor(msw bool) float64 {
	if msw {
		return 10.1325
	}
	return 33.0
}

// ATM is one standard atmosphere in pascals, used for the absolute-pascal
// form of the closed-form bubble mechanics (p / units_factor * ATM).
const ATM = 101325.0
