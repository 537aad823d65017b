package buhlmann

import (
	"math"

	"github.com/m5lapp/decoplan/decoerr"
	"github.com/m5lapp/decoplan/environment"
	"github.com/m5lapp/decoplan/gasmix"
	"github.com/m5lapp/decoplan/plan"
	"github.com/m5lapp/decoplan/physics"

	"gonum.org/v1/gonum/floats"
)

// NDLUnlimited is returned by Plan.NDL when the per-step change in total
// inert-gas pressure reaches zero before the ascent ceiling turns positive:
// the exposure is, for practical purposes, unlimited at that depth and gas.
const NDLUnlimited = -1

// maxDecoMinutes is the 10 000-minute safety cap on the GF deco-stop minute
// accumulator from spec.md §5; exceeding it surfaces as a NumericError
// rather than looping forever on an unreachable ceiling.
const maxDecoMinutes = 10000

// decoAscentRateMPerMin is the ascent rate used while stepping up through
// the deco zone in search of a better switch gas, and for the final leg to
// each new stop depth.
const decoAscentRateMPerMin = 10.0

// defaultDescentRateMPerMin is the rate NDL uses to bring the diver from the
// plan's last recorded depth (the surface, if none) to the depth in question.
const defaultDescentRateMPerMin = 20.0

// Plan is a Bühlmann ZH-L16 plan with Gradient Factors. It embeds plan.Base
// for gas bookkeeping and the segment list, and implements
// plan.TissueUpdater so Base's AddFlat/AddDepthChange drive this model's
// 16 compartments directly.
type Plan struct {
	plan.Base
	Table TableSet
	coefs [CompartmentCount]CompartCoefs
	comps [CompartmentCount]Compartment
}

// NewPlan constructs a Bühlmann Plan against the given coefficient table,
// starting ambient (absolute) pressure in bar, and whether the dive is in
// fresh or salt water. The absolute pressure doubles as both the surface
// and altitude pressure of the resulting environment, matching spec.md §6's
// single abs_pressure parameter.
func NewPlan(table TableSet, absPressureBar float64, freshWater bool) *Plan {
	env := environment.Environment{
		SurfacePressureBar:  absPressureBar,
		GravityMS2:          environment.GravityEarth,
		AltitudePressureBar: absPressureBar,
	}

	p := &Plan{
		Table: table,
		coefs: Tables[table],
		comps: newCompartments(env),
	}
	p.Base = plan.NewBase(freshWater, env, p)
	return p
}

// Flat implements plan.TissueUpdater.
func (p *Plan) Flat(depth float64, gas gasmix.GasMix, minutes float64) error {
	addFlat(&p.coefs, &p.comps, depth, gas, minutes, p.FreshWater, p.Env)
	return nil
}

// Transition implements plan.TissueUpdater.
func (p *Plan) Transition(d1, d2 float64, gas gasmix.GasMix, minutes float64) error {
	addDepthChange(&p.coefs, &p.comps, d1, d2, gas, minutes, p.FreshWater, p.Env)
	return nil
}

func roundUpToThree(depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return math.Ceil(depth/3.0) * 3.0
}

// calcCeiling reduces every compartment's ceiling, in metres, down to the
// single shallowest depth any of them demands, using gonum's floats.Max.
func calcCeiling(coefs *[CompartmentCount]CompartCoefs, comps *[CompartmentCount]Compartment,
	gf float64, fresh bool, env environment.Environment) float64 {

	depths := make([]float64, CompartmentCount)
	for i := range comps {
		bar := ceilingBar(coefs[i], comps[i], gf)
		depths[i] = math.Ceil(physics.PressureToDepth(bar, fresh, env))
	}
	return floats.Max(depths)
}

// CalculateCeiling returns the current ascent ceiling in metres under
// gradient factor gf, reduced across all 16 compartments.
func (p *Plan) CalculateCeiling(gf float64) float64 {
	return calcCeiling(&p.coefs, &p.comps, gf, p.FreshWater, p.Env)
}

// NDL returns the no-decompression limit, in whole minutes, for a dive to
// depth on the named gas under gradient factor gf. It brings the model down
// to depth from its last recorded segment (the surface, if none) at
// defaultDescentRateMPerMin, then counts 1-minute flat exposures until the
// ascent ceiling turns positive. Tissue state is never mutated by NDL; it
// always operates on a snapshot.
//
// Returns NDLUnlimited if the per-minute change in total inert-gas pressure
// reaches zero (the compartments have saturated) before the ceiling turns
// positive.
func (p *Plan) NDL(depth float64, gasLabel string, gf float64) (int, error) {
	gas, ok := p.GasByLabel(gasLabel)
	if !ok {
		return 0, decoerr.NewPlanError("ndl: unknown gas label " + gasLabel)
	}

	comps := p.comps
	curDepth := p.LastDepth()

	if curDepth != depth {
		minutes := math.Abs(depth-curDepth) / defaultDescentRateMPerMin
		addDepthChange(&p.coefs, &comps, curDepth, depth, gas, minutes, p.FreshWater, p.Env)
	}

	const maxMinutes = 999
	for minute := 0; minute < maxMinutes; minute++ {
		delta := addFlat(&p.coefs, &comps, depth, gas, 1.0, p.FreshWater, p.Env)
		if delta == 0 {
			return NDLUnlimited, nil
		}

		ceiling := calcCeiling(&p.coefs, &comps, gf, p.FreshWater, p.Env)
		if ceiling > 0 {
			return minute, nil
		}
	}

	return NDLUnlimited, nil
}

// addDecoDepthChange walks from fromDepth to toDepth one metre at a time,
// switching to a better deco gas whenever BestDecoGas offers one with a
// higher fO2 than the gas currently in use, per spec.md §4.3.3 step 4. Each
// leg between switch points (or the final leg to toDepth) is applied to
// comps and appended as a plan.Segment.
func addDecoDepthChange(coefs *[CompartmentCount]CompartCoefs, comps *[CompartmentCount]Compartment,
	p *Plan, fromDepth, toDepth float64, gasLabel string, gas gasmix.GasMix,
	maxPPO2, maxEND float64, fresh bool, env environment.Environment) ([]plan.Segment, string, gasmix.GasMix) {

	if fromDepth == toDepth {
		return nil, gasLabel, gas
	}

	step := -1.0
	if toDepth > fromDepth {
		step = 1.0
	}

	var segs []plan.Segment
	legStart := fromDepth
	curLabel, curGas := gasLabel, gas

	for d := fromDepth; ; d += step {
		if d != fromDepth {
			if label, bestGas, ok := p.BestDecoGas(d, maxPPO2, maxEND); ok && bestGas.FO2 > curGas.FO2 {
				minutes := math.Abs(d-legStart) / decoAscentRateMPerMin
				addDepthChange(coefs, comps, legStart, d, curGas, minutes, fresh, env)
				segs = append(segs, plan.Segment{StartDepth: legStart, EndDepth: d, GasLabel: curLabel, Minutes: minutes})
				curLabel, curGas = label, bestGas
				legStart = d
			}
		}

		if (step < 0 && d <= toDepth) || (step > 0 && d >= toDepth) {
			break
		}
	}

	if legStart != toDepth {
		minutes := math.Abs(toDepth-legStart) / decoAscentRateMPerMin
		addDepthChange(coefs, comps, legStart, toDepth, curGas, minutes, fresh, env)
		segs = append(segs, plan.Segment{StartDepth: legStart, EndDepth: toDepth, GasLabel: curLabel, Minutes: minutes})
	}

	return segs, curLabel, curGas
}

// CalculateDecompression implements spec.md §4.3.3's plan loop. fromDepth
// and fromGasLabel are only consulted when the plan has no segments yet
// (fromGasLabel must then be non-empty); otherwise the starting depth and
// gas are taken from the last recorded segment.
//
// When maintain is false, the compartment state used to compute the
// schedule is discarded afterwards and the plan's recorded segments are
// left untouched, so that repeated calls are idempotent. When maintain is
// true, the computed tissue state and deco segments are committed to the
// plan.
func (p *Plan) CalculateDecompression(maintain bool, gfLow, gfHigh, maxPPO2, maxEND, fromDepth float64, fromGasLabel string) ([]plan.Segment, error) {
	startDepth := fromDepth
	startGasLabel := fromGasLabel

	if len(p.Segments) > 0 {
		startDepth = p.LastDepth()
		startGasLabel = p.Segments[len(p.Segments)-1].GasLabel
	} else if fromGasLabel == "" {
		return nil, decoerr.NewPlanError("calculate_decompression: neither segments nor from_depth/gas were given")
	}

	gas, ok := p.GasByLabel(startGasLabel)
	if !ok {
		return nil, decoerr.NewPlanError("calculate_decompression: unknown gas label " + startGasLabel)
	}

	comps := p.comps
	var decoSegs []plan.Segment

	ceiling := roundUpToThree(calcCeiling(&p.coefs, &comps, gfLow, p.FreshWater, p.Env))
	curDepth, curLabel, curGas := startDepth, startGasLabel, gas

	advance := func(toDepth float64) {
		segs, label, g := addDecoDepthChange(&p.coefs, &comps, p, curDepth, toDepth, curLabel, curGas, maxPPO2, maxEND, p.FreshWater, p.Env)
		decoSegs = append(decoSegs, segs...)
		curDepth, curLabel, curGas = toDepth, label, g
	}

	advance(ceiling)

	minutesAtStop := 0
	for ceiling > 0 {
		for {
			gf := gfLow + (gfHigh-gfLow)*(1-ceiling/startDepth)

			addFlat(&p.coefs, &comps, curDepth, curGas, 1.0, p.FreshWater, p.Env)
			decoSegs = append(decoSegs, plan.Segment{StartDepth: curDepth, EndDepth: curDepth, GasLabel: curLabel, Minutes: 1.0})
			minutesAtStop++

			if minutesAtStop > maxDecoMinutes {
				warnDecoStopCapExceeded(curDepth, float64(minutesAtStop))
				return nil, decoerr.NewNumericError("calculate_decompression: exceeded the 10000-minute deco-stop safety cap")
			}

			newCeiling := roundUpToThree(calcCeiling(&p.coefs, &comps, gf, p.FreshWater, p.Env))
			if newCeiling <= curDepth-3 {
				ceiling = newCeiling
				break
			}
		}
		advance(ceiling)
	}

	all := make([]plan.Segment, 0, len(p.Segments)+len(decoSegs))
	all = append(all, p.Segments...)
	all = append(all, decoSegs...)

	if maintain {
		p.comps = comps
		p.Segments = all
	}

	return plan.CollapseAdjacent(all), nil
}
