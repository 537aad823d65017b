package vpm

import (
	"math"

	"github.com/m5lapp/decoplan/decoerr"
	"github.com/m5lapp/decoplan/environment"
	"github.com/m5lapp/decoplan/gasmix"
	"github.com/m5lapp/decoplan/numeric"
	"github.com/m5lapp/decoplan/physics"
	"github.com/m5lapp/decoplan/plan"

	"gonum.org/v1/gonum/floats"
)

// atmToBar converts a pressure expressed in standard atmospheres to bar.
const atmToBar = 1.01325

// pascalsPerBar converts a Pascal quantity to bar. Surface tension (gamma,
// gammaC) is given in N/m, which is dimensionally Pa.m; dividing by this
// constant once at Plan construction puts gamma/gammaC into bar.m, the
// units that combine correctly with the bar-valued tissue and ambient
// pressures used everywhere else in this package.
const pascalsPerBar = 100000.0

// maxDecoMinutes is the same 10 000-minute safety cap buhlmann.Plan uses,
// applied here to the per-stop Haldane accumulation loop.
const maxDecoMinutes = 10000

// maxCriticalVolumeIterations bounds spec.md §4.4.11's critical-volume
// relaxation loop; convergence is expected well inside this in practice.
const maxCriticalVolumeIterations = 10

// stopStepMeters is the depth increment used when a projected stop must be
// pushed deeper because a compartment's gradient is exceeded (§4.4.8), and
// the increment used when walking up through the deco zone one stop at a
// time.
const stopStepMeters = 3.0

// Plan is a VPM-B plan. It embeds plan.Base for gas bookkeeping and the
// segment list, and implements plan.TissueUpdater so Base's
// AddFlat/AddDepthChange drive these 16 compartments' bubble mechanics.
type Plan struct {
	plan.Base
	Settings Settings

	// gammaBar and gammaCBar are Settings.SurfaceTensionGamma/
	// SkinCompressionGammaC converted once from N/m (Pa.m) to bar.m, so
	// every bubble-mechanics formula that mixes them with tissue/ambient
	// pressures stays in bar throughout.
	gammaBar, gammaCBar float64

	// lambdaBar is Settings.CritVolumeLambda converted from the chosen
	// depth-unit system (msw/fsw, per Settings.MSW) to bar.minutes, via
	// pressureUnitBar. phaseVolumeToleranceBar is the matching conversion
	// of the critical-volume loop's 1-unit.minute convergence tolerance.
	lambdaBar               float64
	phaseVolumeToleranceBar float64

	tissues         [CompartmentCount]Tissue
	diveTimeMinutes float64
}

// NewPlan constructs a VPM-B plan under the given settings, for fresh or
// salt water, starting at the given absolute (surface) pressure in bar.
func NewPlan(settings Settings, freshWater bool, absPressureBar float64) (*Plan, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	env := environment.Environment{
		SurfacePressureBar:  absPressureBar,
		GravityMS2:          environment.GravityEarth,
		AltitudePressureBar: absPressureBar,
	}

	// Bar per one unit of the chosen depth-pressure system (msw or fsw),
	// via UnitsFactor's "depth units per atmosphere" convention.
	pressureUnitBar := (ATM / pascalsPerBar) / UnitsFactor(settings.MSW)

	p := &Plan{
		Settings:                settings,
		gammaBar:                settings.SurfaceTensionGamma / pascalsPerBar,
		gammaCBar:               settings.SkinCompressionGammaC / pascalsPerBar,
		lambdaBar:               settings.CritVolumeLambda * pressureUnitBar,
		phaseVolumeToleranceBar: pressureUnitBar,
		tissues:                 newTissues(settings, env),
	}
	p.Base = plan.NewBase(freshWater, env, p)

	if settings.AltitudeDiveEnabled && !settings.Acclimatized {
		p.applyAltitudeAcclimatization()
	}

	return p, nil
}

// applyAltitudeAcclimatization implements spec.md §4.4.1's non-acclimatized
// altitude-dive branch: ascending from sea level to altitude before waiting
// there lets each compartment's critical nuclei grow, via the same
// permeable-branch relation nuclearRegeneration uses for crushing, run with
// a negative pressure delta (ambient pressure falling instead of rising).
// Longer waiting times move the adjusted radius further from the sea-level
// radius toward the fully altitude-equilibrated one.
func (p *Plan) applyAltitudeAcclimatization() {
	pressureDrop := p.Env.AltitudePressureBar - environment.SurfacePressureSeaLevel
	if pressureDrop >= 0 {
		return
	}
	waitMinutes := p.Settings.AcclimatizationHrs * 60.0

	for i := range p.tissues {
		t := &p.tissues[i]
		t.AdjustedCriticalRadiusN2, _ = nuclearRegeneration(t.InitialCriticalRadiusN2, pressureDrop, waitMinutes, p.Settings.RegenerationTauMin, p.gammaBar, p.gammaCBar)
		t.AdjustedCriticalRadiusHe, _ = nuclearRegeneration(t.InitialCriticalRadiusHe, pressureDrop, waitMinutes, p.Settings.RegenerationTauMin, p.gammaBar, p.gammaCBar)
	}
}

func (p *Plan) otherGasesBar() float64 {
	return (p.Settings.OtherGasesMMHg / 760.0) * atmToBar
}

// NDL is not implemented for VPM-B: the critical-volume relaxation loop
// only has a meaningful fixed point once an ascent is underway, so there is
// no direct no-decompression-limit search analogous to buhlmann.Plan.NDL.
// Callers that need an NDL estimate should use the Bühlmann-GF solver.
func (p *Plan) NDL(depth float64, gasLabel string, gf float64) (int, error) {
	return 0, decoerr.NewPlanError("vpm: ndl is not supported; use buhlmann.Plan.NDL")
}

// SurfaceInterval off-gasses every compartment at the surface for the given
// number of minutes, for chaining repetitive dives through DiveState.
func (p *Plan) SurfaceInterval(minutes float64) error {
	surfaceDepth := 0.0
	air, _ := gasmix.Gas(0.21, 0)
	return p.Flat(surfaceDepth, air, minutes)
}

// Flat implements plan.TissueUpdater: a constant-depth (Haldane) segment.
func (p *Plan) Flat(depth float64, gas gasmix.GasMix, minutes float64) error {
	for i := range p.tissues {
		haldaneUpdate(&p.tissues[i], i, depth, minutes, gas.FN2, gas.FHe, p.FreshWater, p.Env)
	}
	p.diveTimeMinutes += minutes
	return nil
}

// Transition implements plan.TissueUpdater: an ascent_descent segment. On
// descent, the crushing-pressure update of spec.md §4.4.3 runs for every
// compartment and nuclide.
func (p *Plan) Transition(d1, d2 float64, gas gasmix.GasMix, minutes float64) error {
	descending := d2 > d1
	onsetGradient := p.Settings.GradientOnsetOfImperm * atmToBar

	for i := range p.tissues {
		t := &p.tissues[i]

		var ambStart, ambEnd, tensionStartN2, tensionStartHe float64
		if descending {
			ambStart = physics.DepthToPressure(d1, p.FreshWater, p.Env)
			ambEnd = physics.DepthToPressure(d2, p.FreshWater, p.Env)
			tensionStartN2 = t.PN2 + p.otherGasesBar()
			tensionStartHe = t.PHe + p.otherGasesBar()
		}

		schreinerUpdate(t, i, d1, d2, minutes, gas.FN2, gas.FHe, p.FreshWater, p.Env)

		if !descending {
			continue
		}

		tensionEndN2 := t.PN2 + p.otherGasesBar()
		tensionEndHe := t.PHe + p.otherGasesBar()

		cpN2, err := updateCrushingPressure(ambStart, ambEnd, tensionStartN2, tensionEndN2, t.AdjustedCriticalRadiusN2, onsetGradient, p.gammaBar)
		if err != nil {
			return err
		}
		if cpN2 > t.MaxCrushingPressureN2 {
			t.MaxCrushingPressureN2 = cpN2
		}
		cpHe, err := updateCrushingPressure(ambStart, ambEnd, tensionStartHe, tensionEndHe, t.AdjustedCriticalRadiusHe, onsetGradient, p.gammaBar)
		if err != nil {
			return err
		}
		if cpHe > t.MaxCrushingPressureHe {
			t.MaxCrushingPressureHe = cpHe
		}
	}

	p.diveTimeMinutes += minutes
	return nil
}

// finalizeBottomPhase runs spec.md §4.4.4-§4.4.5 over every compartment:
// nuclear regeneration toward the adjusted critical radius, then the
// initial allowable gradient derived from it.
func (p *Plan) finalizeBottomPhase() {
	for i := range p.tissues {
		t := &p.tissues[i]

		t.RegeneratedRadiusN2, t.AdjustedCrushingPressureN2 = nuclearRegeneration(
			t.AdjustedCriticalRadiusN2, t.MaxCrushingPressureN2, p.diveTimeMinutes,
			p.Settings.RegenerationTauMin, p.gammaBar, p.gammaCBar)
		t.RegeneratedRadiusHe, t.AdjustedCrushingPressureHe = nuclearRegeneration(
			t.AdjustedCriticalRadiusHe, t.MaxCrushingPressureHe, p.diveTimeMinutes,
			p.Settings.RegenerationTauMin, p.gammaBar, p.gammaCBar)

		t.InitialAllowableGradientN2 = initialAllowableGradient(p.gammaBar, p.gammaCBar, t.RegeneratedRadiusN2)
		t.InitialAllowableGradientHe = initialAllowableGradient(p.gammaBar, p.gammaCBar, t.RegeneratedRadiusHe)
		t.AllowableGradientN2 = t.InitialAllowableGradientN2
		t.AllowableGradientHe = t.InitialAllowableGradientHe
	}
}

// ascentCeiling implements spec.md §4.4.7: the deepest depth tolerated by
// any compartment under its current (gas-loading-weighted) allowable
// gradient.
func (p *Plan) ascentCeiling() float64 {
	ceiling := -math.MaxFloat64

	for i := range p.tissues {
		t := &p.tissues[i]
		pTotal := t.PN2 + t.PHe
		if pTotal == 0 {
			continue
		}

		gradWeighted := (t.AllowableGradientN2*t.PN2 + t.AllowableGradientHe*t.PHe) / pTotal
		tolerated := pTotal + p.otherGasesBar() - gradWeighted
		d := physics.PressureToDepth(tolerated, p.FreshWater, p.Env)
		if d > ceiling {
			ceiling = d
		}
	}

	if ceiling < 0 {
		ceiling = 0
	}
	return ceiling
}

// startOfDecoZoneDepth implements spec.md §4.4.6: the shallowest depth at
// which the current tissue loading would already exceed ambient pressure,
// located via bisection against the ascent ceiling. When the bracket roots
// agree (the diver is already past the leading compartment), clamp to
// fromDepth and surface a non-fatal diagnostic rather than failing, per
// spec.md §9's documented open question.
func (p *Plan) startOfDecoZoneDepth(fromDepth float64) float64 {
	ceiling := p.ascentCeiling()
	f := func(d float64) float64 { return ceiling - d }

	if f(0)*f(fromDepth) > 0 {
		warnDecoZoneClamp(fromDepth, fromDepth)
		return fromDepth
	}

	root, err := numeric.Bisect(f, 0, fromDepth, 0.01)
	if err != nil {
		warnDecoZoneClamp(fromDepth, fromDepth)
		return fromDepth
	}
	return root
}

// projectedStopDepth implements spec.md §4.4.8: push a proposed stop depth
// deeper in stopStepMeters increments until no compartment's gas loading
// exceeds its weighted allowable gradient there.
func (p *Plan) projectedStopDepth(proposed float64) float64 {
	for {
		ambient := physics.DepthToPressure(proposed, p.FreshWater, p.Env) + p.otherGasesBar()
		feasible := true

		for i := range p.tissues {
			t := &p.tissues[i]
			pTotal := t.PN2 + t.PHe
			if pTotal == 0 {
				continue
			}
			gradWeighted := (t.AllowableGradientN2*t.PN2 + t.AllowableGradientHe*t.PHe) / pTotal
			if pTotal-ambient > gradWeighted {
				feasible = false
				break
			}
		}

		if feasible {
			return proposed
		}
		proposed += stopStepMeters
	}
}

// boylesLawCompensate implements spec.md §4.4.9: the allowable gradient at
// a stop shallower than the first stop is reduced from the first stop's
// gradient via the gas-law relation on the implied nucleus radius.
func boylesLawCompensate(firstStopGradient, firstStopAmbient, stopAmbient, gamma, gammaC float64) float64 {
	if firstStopGradient <= 0 {
		return firstStopGradient
	}
	radiusAtFirstStop := (2 * gamma * (gammaC - gamma)) / (firstStopGradient * gammaC)
	radiusAtStop := radiusAtFirstStop * math.Cbrt(firstStopAmbient/stopAmbient)
	return (2 * gamma * (gammaC - gamma)) / (radiusAtStop * gammaC)
}

// decoStop implements spec.md §4.4.10: Haldane-update every compartment one
// minute at a time at depth until the ascent ceiling clears nextStop,
// rounding the committed time up to the configured minimum stop time.
func (p *Plan) decoStop(depth, nextStop float64, gas gasmix.GasMix) (float64, error) {
	minutes := 0.0
	for {
		for i := range p.tissues {
			haldaneUpdate(&p.tissues[i], i, depth, 1.0, gas.FN2, gas.FHe, p.FreshWater, p.Env)
		}
		minutes++

		if p.ascentCeiling() <= nextStop {
			break
		}
		if minutes > maxDecoMinutes {
			return 0, decoerr.NewNumericError("vpm decompression stop: exceeded the 10000-minute safety cap")
		}
	}

	step := p.Settings.MinimumDecoStopMin
	if step <= 0 {
		step = 1.0
	}
	return math.Ceil(minutes/step) * step, nil
}

// phaseVolumeTime accumulates the supersaturation-gradient x time integral
// for one compartment across the ascent, used by the critical-volume
// convergence check in CalculateDecompression.
func (t *Tissue) phaseVolumeTime(ambient, minutes float64) float64 {
	pTotal := t.PN2 + t.PHe
	gradient := pTotal - ambient
	if gradient <= 0 {
		return 0
	}
	return gradient * minutes
}

// relaxGradient implements the critical-volume formula of spec.md §4.4.11:
// an allowable gradient is scaled by lambda / phaseVolumeTime, so it grows
// when the accumulated phase-volume-time is below lambda and shrinks when it
// is above. A non-positive phaseVolumeTime leaves the gradient unchanged.
func relaxGradient(gradient, phaseVolumeTime, lambda float64) float64 {
	if phaseVolumeTime <= 0 {
		return gradient
	}
	return gradient * (lambda / phaseVolumeTime)
}

// CalculateDecompression implements the VPM-B ascent/critical-volume loop
// of spec.md §4.4.6-§4.4.12, composed with the bottom-phase finalization of
// §4.4.4-§4.4.5. fromDepth and fromGasLabel behave as in buhlmann.Plan: they
// are only consulted when the plan has no segments recorded yet.
//
// maxPPO2 and maxEND drive deco-gas switching exactly as in the Bühlmann
// solver, via plan.Base.BestDecoGas.
func (p *Plan) CalculateDecompression(maintain bool, maxPPO2, maxEND, fromDepth float64, fromGasLabel string) ([]plan.Segment, error) {
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

	snapshot := p.tissues
	snapshotDiveTime := p.diveTimeMinutes
	p.finalizeBottomPhase()

	var decoSegs []plan.Segment
	lastPVT := make([]float64, CompartmentCount)

	for iter := 0; iter < maxCriticalVolumeIterations; iter++ {
		tissues := p.tissues
		segs, pvt, err := p.simulateAscent(&tissues, startDepth, startGasLabel, gas, maxPPO2, maxEND)
		if err != nil {
			p.tissues = snapshot
			p.diveTimeMinutes = snapshotDiveTime
			return nil, err
		}

		decoSegs = segs

		if !p.Settings.CriticalVolumeEnabled || iter == 0 {
			maxDelta := 0.0
			for i := range pvt {
				d := math.Abs(pvt[i] - lastPVT[i])
				if d > maxDelta {
					maxDelta = d
				}
			}
			lastPVT = pvt
			if !p.Settings.CriticalVolumeEnabled {
				p.tissues = tissues
				break
			}
			if maxDelta <= p.phaseVolumeToleranceBar && iter > 0 {
				p.tissues = tissues
				break
			}
		} else {
			maxDelta := floats.Max(absDiff(pvt, lastPVT))
			lastPVT = pvt
			if maxDelta <= p.phaseVolumeToleranceBar {
				p.tissues = tissues
				break
			}
		}

		for i := range p.tissues {
			p.tissues[i].AllowableGradientN2 = relaxGradient(p.tissues[i].AllowableGradientN2, pvt[i], p.lambdaBar)
			p.tissues[i].AllowableGradientHe = relaxGradient(p.tissues[i].AllowableGradientHe, pvt[i], p.lambdaBar)
		}
	}

	all := make([]plan.Segment, 0, len(p.Segments)+len(decoSegs))
	all = append(all, p.Segments...)
	all = append(all, decoSegs...)

	if maintain {
		p.Segments = all
	} else {
		p.tissues = snapshot
		p.diveTimeMinutes = snapshotDiveTime
	}

	return plan.CollapseAdjacent(all), nil
}

func absDiff(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = math.Abs(a[i] - b[i])
	}
	return out
}

// simulateAscent runs one full ascent-and-deco-stops pass against a working
// copy of the tissues, returning the segments produced and the per
// compartment phase-volume-time accumulated, without mutating p.tissues.
func (p *Plan) simulateAscent(tissues *[CompartmentCount]Tissue, startDepth float64, startGasLabel string, startGas gasmix.GasMix, maxPPO2, maxEND float64) ([]plan.Segment, []float64, error) {
	saved := p.tissues
	p.tissues = *tissues
	defer func() { *tissues = p.tissues; p.tissues = saved }()

	pvt := make([]float64, CompartmentCount)

	decoZoneDepth := p.startOfDecoZoneDepth(startDepth)
	firstStop := roundUpToStopIncrement(decoZoneDepth)

	var segs []plan.Segment
	curDepth, curLabel, curGas := startDepth, startGasLabel, startGas

	firstStopAmbient := physics.DepthToPressure(firstStop, p.FreshWater, p.Env) + p.otherGasesBar()
	firstStopGradientN2 := p.tissues[0].AllowableGradientN2

	for stop := firstStop; stop >= 0; stop -= stopStepMeters {
		stop = p.projectedStopDepth(stop)

		if label, bestGas, ok := p.BestDecoGas(stop, maxPPO2, maxEND); ok && bestGas.FO2 > curGas.FO2 {
			curLabel, curGas = label, bestGas
		}

		if curDepth != stop {
			rate := decoAscentRateMPerMin
			minutes := math.Abs(stop-curDepth) / rate
			for i := range p.tissues {
				schreinerUpdate(&p.tissues[i], i, curDepth, stop, minutes, curGas.FN2, curGas.FHe, p.FreshWater, p.Env)
			}
			segs = append(segs, plan.Segment{StartDepth: curDepth, EndDepth: stop, GasLabel: curLabel, Minutes: minutes})
			curDepth = stop
		}

		stopAmbient := physics.DepthToPressure(stop, p.FreshWater, p.Env) + p.otherGasesBar()
		for i := range p.tissues {
			p.tissues[i].AllowableGradientN2 = boylesLawCompensate(firstStopGradientN2, firstStopAmbient, stopAmbient, p.gammaBar, p.gammaCBar)
		}

		if stop == 0 {
			break
		}

		nextStop := stop - stopStepMeters
		if nextStop < 0 {
			nextStop = 0
		}

		minutes, err := p.decoStop(stop, nextStop, curGas)
		if err != nil {
			return nil, nil, err
		}
		if minutes > 0 {
			segs = append(segs, plan.Segment{StartDepth: stop, EndDepth: stop, GasLabel: curLabel, Minutes: minutes})
		}

		for i := range p.tissues {
			pvt[i] += p.tissues[i].phaseVolumeTime(stopAmbient, minutes)
		}
	}

	if curDepth != 0 {
		rate := decoAscentRateMPerMin
		minutes := math.Abs(curDepth) / rate
		for i := range p.tissues {
			schreinerUpdate(&p.tissues[i], i, curDepth, 0, minutes, curGas.FN2, curGas.FHe, p.FreshWater, p.Env)
		}
		segs = append(segs, plan.Segment{StartDepth: curDepth, EndDepth: 0, GasLabel: curLabel, Minutes: minutes})
	}

	surfaceAmbient := p.Env.SurfacePressureBar
	for i := range p.tissues {
		pvt[i] += surfacePhaseVolumeTime(p.tissues[i].InitialPN2, p.tissues[i].PN2, surfaceAmbient, n2K(i))
		pvt[i] += surfacePhaseVolumeTime(p.tissues[i].InitialPHe, p.tissues[i].PHe, 0, heK(i))
	}

	return segs, pvt, nil
}

func roundUpToStopIncrement(depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return math.Ceil(depth/stopStepMeters) * stopStepMeters
}

// surfacePhaseVolumeTime implements spec.md §4.4.12's closed form: the
// integral of supersaturation gradient x time from the end of the dive to
// full off-gassing at the surface, in one of three branches depending on
// whether the residual nitrogen tension exceeds the surface inspired
// nitrogen pressure.
func surfacePhaseVolumeTime(initialPN2, finalPN2, ambientSurface, k float64) float64 {
	switch {
	case finalPN2 <= ambientSurface:
		return 0
	case initialPN2 >= ambientSurface:
		return (initialPN2-ambientSurface)/k - (finalPN2-ambientSurface)/k
	default:
		return (finalPN2 - ambientSurface) / k
	}
}

// decoAscentRateMPerMin is the ascent rate used between deco stops.
const decoAscentRateMPerMin = 10.0
