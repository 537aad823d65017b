package plan

import (
	"github.com/m5lapp/decoplan/decoerr"
	"github.com/m5lapp/decoplan/environment"
	"github.com/m5lapp/decoplan/gasmix"
)

// TissueUpdater is implemented by each solver's tissue model (buhlmann.Plan,
// vpm.Plan) so that Base can drive it through a flat stop or a depth change
// without knowing which solver it is embedded in.
type TissueUpdater interface {
	// Flat updates tissue loading for time spent at a constant depth on gas.
	Flat(depth float64, gas gasmix.GasMix, minutes float64) error
	// Transition updates tissue loading for a depth change from d1 to d2 on
	// gas, taking minutes to complete.
	Transition(d1, d2 float64, gas gasmix.GasMix, minutes float64) error
}

// Base is the bookkeeping shared by both solvers: the declared bottom and
// deco gases, the accumulated segment list and the ambient conditions the
// plan was built for. Both buhlmann.Plan and vpm.Plan embed a Base and
// supply an Updater that implements TissueUpdater.
type Base struct {
	BottomGases map[string]gasmix.GasMix
	DecoGases   map[string]gasmix.GasMix
	Segments    []Segment
	FreshWater  bool
	Env         environment.Environment
	Updater     TissueUpdater
}

// NewBase returns a Base ready to have gases declared against it.
func NewBase(freshWater bool, env environment.Environment, updater TissueUpdater) Base {
	return Base{
		BottomGases: make(map[string]gasmix.GasMix),
		DecoGases:   make(map[string]gasmix.GasMix),
		FreshWater:  freshWater,
		Env:         env,
		Updater:     updater,
	}
}

// AddBottomGas declares a bottom gas under label for later use in flat
// stops and depth changes.
func (b *Base) AddBottomGas(label string, fO2, fHe float64) error {
	gm, err := gasmix.Gas(fO2, fHe)
	if err != nil {
		return err
	}
	b.BottomGases[label] = gm
	return nil
}

// AddDecoGas declares a decompression gas under label, eligible for
// automatic selection by BestDecoGas.
func (b *Base) AddDecoGas(label string, fO2, fHe float64) error {
	gm, err := gasmix.Gas(fO2, fHe)
	if err != nil {
		return err
	}
	b.DecoGases[label] = gm
	return nil
}

// GasByLabel looks a label up across both bottom and deco gases declared on
// this plan.
func (b *Base) GasByLabel(label string) (gasmix.GasMix, bool) {
	return b.gasByLabel(label)
}

// gasByLabel looks a label up across both bottom and deco gases.
func (b *Base) gasByLabel(label string) (gasmix.GasMix, bool) {
	if gm, ok := b.BottomGases[label]; ok {
		return gm, true
	}
	if gm, ok := b.DecoGases[label]; ok {
		return gm, true
	}
	return gasmix.GasMix{}, false
}

// AddFlat records and applies a flat stop at depth on the named gas for the
// given number of minutes.
func (b *Base) AddFlat(depth float64, label string, minutes float64) error {
	gm, ok := b.gasByLabel(label)
	if !ok {
		return decoerr.NewPlanError("add_flat: unknown gas label " + label)
	}

	if err := b.Updater.Flat(depth, gm, minutes); err != nil {
		return err
	}

	b.Segments = append(b.Segments, Segment{
		StartDepth: depth,
		EndDepth:   depth,
		GasLabel:   label,
		Minutes:    minutes,
	})
	return nil
}

// AddDepthChange records and applies a transition from d1 to d2 on the
// named gas, taking minutes to complete.
func (b *Base) AddDepthChange(d1, d2 float64, label string, minutes float64) error {
	gm, ok := b.gasByLabel(label)
	if !ok {
		return decoerr.NewPlanError("add_depth_change: unknown gas label " + label)
	}

	if err := b.Updater.Transition(d1, d2, gm, minutes); err != nil {
		return err
	}

	b.Segments = append(b.Segments, Segment{
		StartDepth: d1,
		EndDepth:   d2,
		GasLabel:   label,
		Minutes:    minutes,
	})
	return nil
}

// LastDepth returns the end depth of the last recorded segment, or 0 if no
// segments have been recorded yet.
func (b *Base) LastDepth() float64 {
	if len(b.Segments) == 0 {
		return 0.0
	}
	return b.Segments[len(b.Segments)-1].EndDepth
}

// BestDecoGas picks, among the declared deco gases, the one with the
// highest fO2 whose MOD is at or below depth and whose END at depth is at
// or below maxEND. ok is false when no deco gas satisfies both limits.
//
// Tie-break is deliberately limited to highest fO2; among equal-fO2
// candidates the iteration order of DecoGases is not observable to callers
// and must not be relied upon.
func (b *Base) BestDecoGas(depth, maxPPO2, maxEND float64) (label string, gas gasmix.GasMix, ok bool) {
	bestFO2 := -1.0

	for l, gm := range b.DecoGases {
		gmCopy := gm
		mod := gmCopy.MOD(maxPPO2, b.FreshWater, b.Env)
		end := gmCopy.END(depth, b.FreshWater, b.Env)

		if depth <= mod && end <= maxEND && gm.FO2 > bestFO2 {
			bestFO2 = gm.FO2
			label = l
			gas = gm
			ok = true
		}
	}

	return label, gas, ok
}
