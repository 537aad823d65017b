package buhlmann

import (
	"math"

	"github.com/m5lapp/decoplan/environment"
	"github.com/m5lapp/decoplan/gasmix"
	"github.com/m5lapp/decoplan/helpers"
	"github.com/m5lapp/decoplan/physics"
)

// Compartment holds one tissue compartment's inert-gas loading. PTotal is
// kept alongside PN2/PHe purely as a convenience; it is always their sum.
type Compartment struct {
	PN2    float64
	PHe    float64
	PTotal float64
}

func (c *Compartment) recompute() {
	c.PTotal = c.PN2 + c.PHe
}

// newCompartments returns the 16 compartments initialised to breathing air
// at the surface, with the lung's water-vapour pressure already subtracted
// from the inspired fraction, per the source's initial condition.
func newCompartments(env environment.Environment) [CompartmentCount]Compartment {
	var c [CompartmentCount]Compartment
	surfacePN2 := (env.SurfacePressureBar - physics.LungVapourPressure) * 0.79
	for i := range c {
		c[i] = Compartment{PN2: surfacePN2, PHe: 0.0}
		c[i].recompute()
	}
	return c
}

// addDepthChange applies the Schreiner equation to every compartment for a
// depth change from d1 to d2 on gas over the given time, per spec.md
// §4.3.2's add_depth_change. Returns the total inert-gas pressure delta
// summed across compartments, which callers use to detect a converged or
// stalled transition.
func addDepthChange(coefs *[CompartmentCount]CompartCoefs, comps *[CompartmentCount]Compartment,
	d1, d2 float64, gas gasmix.GasMix, timeMinutes float64, fresh bool, env environment.Environment) float64 {

	pInspN2 := physics.GasPressureBreathing(d2, gas.FN2, fresh, env)
	pInspHe := physics.GasPressureBreathing(d2, gas.FHe, fresh, env)
	sign := helpers.DescOrAsc(d1, d2)
	rateN2 := physics.GasRateBarPerMinute(d1, d2, timeMinutes, gas.FN2, fresh, env) * sign
	rateHe := physics.GasRateBarPerMinute(d1, d2, timeMinutes, gas.FHe, fresh, env) * sign

	var delta float64
	for i := range comps {
		before := comps[i].PTotal

		comps[i].PN2 = physics.Schreiner(comps[i].PN2, pInspN2, timeMinutes, coefs[i].N2Ht, rateN2)
		comps[i].PHe = physics.Schreiner(comps[i].PHe, pInspHe, timeMinutes, coefs[i].HeHt, rateHe)
		comps[i].recompute()

		delta += math.Abs(comps[i].PTotal - before)
	}
	return delta
}

// addFlat applies the Haldane equation to every compartment for time
// minutes spent at depth on gas.
func addFlat(coefs *[CompartmentCount]CompartCoefs, comps *[CompartmentCount]Compartment,
	depth float64, gas gasmix.GasMix, timeMinutes float64, fresh bool, env environment.Environment) float64 {

	pInspN2 := physics.GasPressureBreathing(depth, gas.FN2, fresh, env)
	pInspHe := physics.GasPressureBreathing(depth, gas.FHe, fresh, env)

	var delta float64
	for i := range comps {
		before := comps[i].PTotal

		comps[i].PN2 = physics.Haldane(comps[i].PN2, pInspN2, coefs[i].N2Ht, timeMinutes)
		comps[i].PHe = physics.Haldane(comps[i].PHe, pInspHe, coefs[i].HeHt, timeMinutes)
		comps[i].recompute()

		delta += math.Abs(comps[i].PTotal - before)
	}
	return delta
}

// ceilingBar computes the unrounded ascent ceiling in bar for a single
// compartment under gradient factor gf, per spec.md §4.3.2's
// calculate_ceiling weighting.
func ceilingBar(coefs CompartCoefs, c Compartment, gf float64) float64 {
	if c.PTotal == 0 {
		return 0
	}
	a := (coefs.N2A*c.PN2 + coefs.HeA*c.PHe) / c.PTotal
	b := (coefs.N2B*c.PN2 + coefs.HeB*c.PHe) / c.PTotal
	return (c.PTotal - a*gf) / (gf/b + 1 - gf)
}
