package vpm

import (
	"fmt"

	"github.com/m5lapp/decoplan/decoerr"
	"github.com/m5lapp/decoplan/gasmix"
)

// ProfileStepCode classifies one step of a DiveInput's profile, matching
// spec.md §6's profile_code field.
type ProfileStepCode int

const (
	ProfileAscentDescent ProfileStepCode = 1
	ProfileConstantDepth ProfileStepCode = 2
	ProfileEnd           ProfileStepCode = 99
)

// ProfileStep is one leg of a dive profile: a transition to ToDepth over
// Minutes (ProfileAscentDescent), a flat stop at the current depth for
// Minutes (ProfileConstantDepth), or the end marker (ProfileEnd, which
// carries no data).
type ProfileStep struct {
	Code    ProfileStepCode
	ToDepth float64
	Minutes float64
}

// DiveInput describes one dive in a repetitive-dive sequence, per spec.md
// §6: its declared gas mixes (the first is used as the bottom gas for every
// profile step; additional mixes are declared as deco gases in order), its
// profile, and how it chains to the dive before it.
type DiveInput struct {
	Desc                   string
	GasMixes               []gasmix.GasMix
	ProfileSteps           []ProfileStep
	RepetitiveCode         int
	SurfaceIntervalMinutes float64
}

// AltitudeConfig is the acclimatization/altitude block of spec.md §6.
type AltitudeConfig struct {
	Acclimatized bool
	Hours        float64
	AltitudeM    float64
}

// Config is the full configuration record DiveState is built from.
type Config struct {
	Input    []DiveInput
	Altitude AltitudeConfig
	Settings Settings
}

// DiveState drives a sequence of DiveInput entries through one vpm.Plan per
// non-repetitive dive, applying each dive's surface interval as off-gassing
// against the carried-over Plan before continuing it.
type DiveState struct {
	Config Config
	Plans  []*Plan
}

// NewDiveState builds and runs every dive in config.Input, in order. A dive
// whose RepetitiveCode marks it as a continuation of the previous one
// reuses that Plan (after applying its surface interval); any other dive
// starts a fresh Plan at the configured altitude.
func NewDiveState(config Config) (*DiveState, error) {
	settings := config.Settings
	settings.AltitudeDiveEnabled = config.Altitude.AltitudeM > 0
	settings.AltitudeMeters = config.Altitude.AltitudeM
	settings.Acclimatized = config.Altitude.Acclimatized
	settings.AcclimatizationHrs = config.Altitude.Hours

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	absPressure := BarometricPressureBar(config.Altitude.AltitudeM)
	ds := &DiveState{Config: config}

	var carry *Plan
	for _, d := range config.Input {
		p, err := ds.stepDive(d, carry, settings, absPressure)
		if err != nil {
			return nil, err
		}
		ds.Plans = append(ds.Plans, p)
		carry = p
	}

	return ds, nil
}

func (ds *DiveState) stepDive(d DiveInput, carry *Plan, settings Settings, absPressure float64) (*Plan, error) {
	var p *Plan
	var err error

	if d.RepetitiveCode > 1 && carry != nil {
		p = carry
		if d.SurfaceIntervalMinutes > 0 {
			if err := p.SurfaceInterval(d.SurfaceIntervalMinutes); err != nil {
				return nil, err
			}
		}
	} else {
		p, err = NewPlan(settings, false, absPressure)
		if err != nil {
			return nil, err
		}
	}

	bottomLabel := ""
	for i, gm := range d.GasMixes {
		label := fmt.Sprintf("gas%d", i+1)
		if i == 0 {
			bottomLabel = label
			if err := p.AddBottomGas(label, gm.FO2, gm.FHe); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.AddDecoGas(label, gm.FO2, gm.FHe); err != nil {
			return nil, err
		}
	}

	depth := p.LastDepth()
	for _, step := range d.ProfileSteps {
		switch step.Code {
		case ProfileAscentDescent:
			if err := p.AddDepthChange(depth, step.ToDepth, bottomLabel, step.Minutes); err != nil {
				return nil, err
			}
			depth = step.ToDepth
		case ProfileConstantDepth:
			if err := p.AddFlat(depth, bottomLabel, step.Minutes); err != nil {
				return nil, err
			}
		case ProfileEnd:
		default:
			return nil, decoerr.NewPlanError(fmt.Sprintf("vpm: unknown profile code %d", step.Code))
		}
	}

	return p, nil
}
