package vpm

import (
	"math"

	"github.com/m5lapp/decoplan/environment"
	"github.com/m5lapp/decoplan/numeric"
	"github.com/m5lapp/decoplan/physics"
)

// Tissue is one VPM-B compartment's full state vector, per spec.md §3.
type Tissue struct {
	PN2, PHe               float64
	InitialPN2, InitialPHe float64

	StartAscentPN2, StartAscentPHe     float64
	StartDecoZonePN2, StartDecoZonePHe float64

	InitialCriticalRadiusN2, InitialCriticalRadiusHe   float64
	AdjustedCriticalRadiusN2, AdjustedCriticalRadiusHe float64
	RegeneratedRadiusN2, RegeneratedRadiusHe           float64

	MaxCrushingPressureN2, MaxCrushingPressureHe         float64
	AdjustedCrushingPressureN2, AdjustedCrushingPressureHe float64

	InitialAllowableGradientN2, InitialAllowableGradientHe float64
	AllowableGradientN2, AllowableGradientHe               float64
	DecoGradientN2, DecoGradientHe                         float64

	AmbPressureOnsetOfImperm float64
	GasTensionOnsetOfImperm  float64
	SurfacePhaseVolumeTime   float64
	PhaseVolumeTime          float64
	LastPhaseVolumeTime      float64
	MaxActualGradient        float64
}

// micronsToMeters converts a critical radius expressed in microns (as
// Settings does) to meters (as the bubble mechanics formulas require).
func micronsToMeters(microns float64) float64 {
	return microns * 1e-6
}

// newTissues returns the 16 VPM-B compartments initialised to breathing air
// (or the surface-equivalent inert gas loading) at the surface, with
// critical radii taken from settings.
func newTissues(settings Settings, env environment.Environment) [CompartmentCount]Tissue {
	var t [CompartmentCount]Tissue
	surfacePN2 := (env.AltitudePressureBar - physics.LungVapourPressure) * 0.79
	for i := range t {
		t[i] = Tissue{
			PN2:                     surfacePN2,
			PHe:                     0.0,
			InitialPN2:              surfacePN2,
			InitialPHe:              0.0,
			InitialCriticalRadiusN2: micronsToMeters(settings.CriticalRadiusN2Microns),
			InitialCriticalRadiusHe: micronsToMeters(settings.CriticalRadiusHeMicrons),
			AdjustedCriticalRadiusN2: micronsToMeters(settings.CriticalRadiusN2Microns),
			AdjustedCriticalRadiusHe: micronsToMeters(settings.CriticalRadiusHeMicrons),
			RegeneratedRadiusN2: micronsToMeters(settings.CriticalRadiusN2Microns),
			RegeneratedRadiusHe: micronsToMeters(settings.CriticalRadiusHeMicrons),
		}
	}
	return t
}

// schreinerUpdate applies the Schreiner equation to both nuclides of a
// single compartment for a depth change, per spec.md §4.4.2's
// ascent_descent.
func schreinerUpdate(t *Tissue, compartment int, d1, d2, timeMinutes, fN2, fHe float64, fresh bool, env environment.Environment) {
	pInspN2 := physics.GasPressureBreathing(d2, fN2, fresh, env) - physics.LungVapourPressure*fN2
	pInspHe := physics.GasPressureBreathing(d2, fHe, fresh, env) - physics.LungVapourPressure*fHe

	rateN2 := physics.GasRateBarPerMinute(d1, d2, timeMinutes, fN2, fresh, env)
	rateHe := physics.GasRateBarPerMinute(d1, d2, timeMinutes, fHe, fresh, env)
	if d2 < d1 {
		rateN2, rateHe = -rateN2, -rateHe
	}

	t.PN2 = physics.Schreiner(t.PN2, pInspN2, timeMinutes, N2HalfTimes[compartment], rateN2)
	t.PHe = physics.Schreiner(t.PHe, pInspHe, timeMinutes, HeHalfTimes[compartment], rateHe)
}

// haldaneUpdate applies the Haldane equation to both nuclides of a single
// compartment at a constant depth, per spec.md §4.4.2's constant_depth.
func haldaneUpdate(t *Tissue, compartment int, depth, timeMinutes, fN2, fHe float64, fresh bool, env environment.Environment) {
	pInspN2 := physics.GasPressureBreathing(depth, fN2, fresh, env) - physics.LungVapourPressure*fN2
	pInspHe := physics.GasPressureBreathing(depth, fHe, fresh, env) - physics.LungVapourPressure*fHe

	t.PN2 = physics.Haldane(t.PN2, pInspN2, N2HalfTimes[compartment], timeMinutes)
	t.PHe = physics.Haldane(t.PHe, pInspHe, HeHalfTimes[compartment], timeMinutes)
}

// crushingCubicRoot solves r*r*(a*r - b) = c for the ending bubble radius,
// using the bisection/Newton-Raphson hybrid root finder, bracketed around
// rOnset. a is the supersaturation gradient (ambient - tension) at the end
// of the descent segment, b is twice the surface-tension constant, and c is
// fixed by the gradient and radius at the onset of impermeability so that
// r == rOnset is the root when the gradient hasn't changed.
func crushingCubicRoot(a, b, rOnset, gradientAtOnset float64) (float64, error) {
	c := gradientAtOnset*rOnset*rOnset*rOnset - b*rOnset*rOnset

	f := func(r float64) float64 { return r*r*(a*r-b) - c }
	df := func(r float64) float64 { return 3*a*r*r - 2*b*r }

	lo := rOnset * 0.01
	hi := rOnset * 2.0
	return numeric.NewtonRaphson(f, df, lo, hi, rOnset, rOnset*1e-9)
}

// updateCrushingPressure implements spec.md §4.4.3 for one nuclide of one
// compartment across a single descent segment. ambStart/ambEnd are the
// ambient pressures in bar at the start and end of the segment;
// tensionStart/tensionEnd are the corresponding inert gas tensions
// (including the constant other-gases term); rOnset is the compartment's
// current critical radius for this nuclide; onsetGradient is
// Settings.GradientOnsetOfImperm converted to bar.
func updateCrushingPressure(ambStart, ambEnd, tensionStart, tensionEnd, rOnset, onsetGradient, gamma float64) (crushingPressure float64, err error) {
	gradEnd := ambEnd - tensionEnd

	if gradEnd <= onsetGradient {
		// Permeable branch: the bubble wall tracks the crushing pressure
		// directly.
		return ambEnd - tensionEnd, nil
	}

	// Impermeable branch: locate the onset-of-impermeability point within
	// the segment via bisection, then solve for the ending radius.
	gradStart := ambStart - tensionStart
	f := func(frac float64) float64 {
		amb := ambStart + frac*(ambEnd-ambStart)
		tension := tensionStart + frac*(tensionEnd-tensionStart)
		return (amb - tension) - onsetGradient
	}

	var onsetFrac float64
	if gradStart > onsetGradient {
		// Already past onset at the very start of the segment.
		onsetFrac = 0
	} else {
		onsetFrac, err = numeric.Bisect(f, 0, 1, 1e-3)
		if err != nil {
			return 0, err
		}
	}

	ambOnset := ambStart + onsetFrac*(ambEnd-ambStart)
	deltaAmbient := ambEnd - ambOnset

	rEnd, err := crushingCubicRoot(gradEnd, 2*gamma, rOnset, onsetGradient)
	if err != nil {
		return 0, err
	}

	tensionAtOnset := tensionStart + onsetFrac*(tensionEnd-tensionStart)
	ratio := rOnset / rEnd
	crushingPressure = onsetGradient + deltaAmbient + tensionAtOnset*(1-ratio*ratio*ratio)
	return crushingPressure, nil
}

// nuclearRegeneration implements spec.md §4.4.4: after the bottom phase,
// bubble nuclei partially regenerate toward their original critical radius
// over the elapsed dive time.
func nuclearRegeneration(initialRadius, maxCrushingPressure, diveTimeMinutes, tau, gamma, gammaC float64) (regeneratedRadius, adjustedCrushingPressure float64) {
	// Ending radius under maximum crushing pressure, from the permeable
	// compression formula (Boyle's-law-style relation between crushing
	// pressure and radius change). A sufficiently large negative
	// maxCrushingPressure (e.g. a steep ascent-to-altitude pressure drop)
	// can drive the denominator non-positive; fall back to the initial
	// radius rather than return a negative or infinite one.
	endingRadius := initialRadius
	if denom := 2*gamma + maxCrushingPressure*initialRadius; denom > 0 {
		endingRadius = (2 * gamma * initialRadius) / denom
	}

	regenerationFactor := math.Exp(-diveTimeMinutes / tau)
	regeneratedRadius = endingRadius + (initialRadius-endingRadius)*regenerationFactor

	adjustedCrushingPressure = maxCrushingPressure * (endingRadius * endingRadius * endingRadius) / (regeneratedRadius * regeneratedRadius * regeneratedRadius)
	return regeneratedRadius, adjustedCrushingPressure
}

// initialAllowableGradient implements spec.md §4.4.5.
func initialAllowableGradient(gamma, gammaC, regeneratedRadius float64) float64 {
	return (2 * gamma * (gammaC - gamma)) / (regeneratedRadius * gammaC)
}
