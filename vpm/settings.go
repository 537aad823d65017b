package vpm

import (
	"fmt"
	"math"

	"github.com/m5lapp/decoplan/decoerr"
)

// everestAltitudeM is the altitude of the summit of Everest, in metres; the
// spec's upper bound on a configurable dive-site altitude.
const everestAltitudeM = 8848.0

// Settings holds the tunable VPM-B parameters from spec.md §4.4.1 and §6.
// Zero-value Settings is not valid; use DefaultSettings and override.
type Settings struct {
	// MSW selects metres of seawater; false selects feet of seawater (fsw).
	MSW bool

	CriticalRadiusN2Microns float64
	CriticalRadiusHeMicrons float64

	CriticalVolumeEnabled bool
	CritVolumeLambda      float64

	AltitudeDiveEnabled bool
	AltitudeMeters      float64
	Acclimatized        bool
	AcclimatizationHrs  float64

	SurfaceTensionGamma   float64
	SkinCompressionGammaC float64
	GradientOnsetOfImperm float64
	RegenerationTauMin    float64

	OtherGasesMMHg     float64
	MinimumDecoStopMin float64
}

// DefaultSettings returns the VPM-B settings for a typical sea-level,
// msw-reported, critical-volume-enabled dive.
func DefaultSettings() Settings {
	return Settings{
		MSW:                     true,
		CriticalRadiusN2Microns: 0.55,
		CriticalRadiusHeMicrons: 0.45,
		CriticalVolumeEnabled:   true,
		CritVolumeLambda:        DefaultCritVolumeLambda * UnitsFactor(true) / UnitsFactor(false),
		AltitudeDiveEnabled:     false,
		AltitudeMeters:          0,
		Acclimatized:            true,
		AcclimatizationHrs:      0,
		SurfaceTensionGamma:     SurfaceTensionGamma,
		SkinCompressionGammaC:   SkinCompressionGammaC,
		GradientOnsetOfImperm:   GradientOnsetOfImperm,
		RegenerationTauMin:      DefaultRegenerationTau,
		OtherGasesMMHg:          102.0,
		MinimumDecoStopMin:      1.0,
	}
}

// Validate checks the invariants spec.md §7 requires a ConfigurationError
// for.
func (s Settings) Validate() error {
	for _, r := range []struct {
		name  string
		value float64
	}{{"critical_radius_n2", s.CriticalRadiusN2Microns}, {"critical_radius_he", s.CriticalRadiusHeMicrons}} {
		if r.value < 0.2 || r.value > 1.35 {
			return decoerr.NewConfigurationError(r.name, fmt.Sprintf("critical radius must be in [0.2, 1.35] microns; got %v", r.value))
		}
	}

	if s.RegenerationTauMin <= 0 {
		return decoerr.NewConfigurationError("regeneration_tau", fmt.Sprintf("must be > 0; got %v", s.RegenerationTauMin))
	}

	if s.AltitudeMeters < 0 || s.AltitudeMeters > everestAltitudeM {
		return decoerr.NewConfigurationError("altitude", fmt.Sprintf("must be in [0, %v]; got %v", everestAltitudeM, s.AltitudeMeters))
	}

	if s.AltitudeDiveEnabled && !s.Acclimatized && s.AcclimatizationHrs <= 0 {
		return decoerr.NewConfigurationError("acclimatization_hrs",
			"a non-acclimatized diver must have a positive ascent-to-altitude/waiting time")
	}

	if math.IsNaN(s.CritVolumeLambda) || s.CritVolumeLambda <= 0 {
		return decoerr.NewConfigurationError("crit_volume_lambda", fmt.Sprintf("must be > 0; got %v", s.CritVolumeLambda))
	}

	return nil
}
