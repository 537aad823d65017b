// Package physics implements the depth/pressure conversions and inert-gas
// loading integrators (Schreiner and Haldane) shared by the Bühlmann and
// VPM-B solvers. Every function here is pure; altitude and water density are
// taken from an explicit environment.Environment rather than a global.
package physics

import (
	"math"

	"github.com/m5lapp/decoplan/environment"
)

func liquidDensity(fresh bool) float64 {
	if fresh {
		return environment.FreshWaterDensity
	}
	return environment.SaltWaterDensity
}

// DepthToPressure converts a depth in metres to an absolute pressure in bar,
// accounting for the liquid density (fresh or salt water) and the
// environment's altitude pressure.
//
//	p = altitude_pressure + (rho * g * depth) / 100000
func DepthToPressure(depthM float64, fresh bool, env environment.Environment) float64 {
	rho := liquidDensity(fresh)
	return env.AltitudePressureBar + (rho*env.GravityMS2*depthM)/100000.0
}

// PressureToDepth inverts DepthToPressure.
func PressureToDepth(bar float64, fresh bool, env environment.Environment) float64 {
	rho := liquidDensity(fresh)
	return (bar - env.AltitudePressureBar) * 100000.0 / (rho * env.GravityMS2)
}

// GasRateBarPerMinute returns the rate of ambient-pressure change, in bar per
// minute, of the inert-gas fraction fGas while transitioning from d1 to d2
// (in metres) over the given time in minutes.
func GasRateBarPerMinute(d1, d2, timeMinutes, fGas float64, fresh bool, env environment.Environment) float64 {
	if timeMinutes == 0 {
		return 0
	}
	deltaP := DepthToPressure(d2, fresh, env) - DepthToPressure(d1, fresh, env)
	return math.Abs(deltaP/timeMinutes) * fGas
}

// GasPressureBreathing returns the partial pressure in bar of the inert or
// respiratory gas fraction fGas at the given depth. It does not subtract
// lung water-vapour pressure; callers on the Bühlmann path don't need that
// correction, and the VPM path applies it explicitly in its own formulas.
func GasPressureBreathing(depthM, fGas float64, fresh bool, env environment.Environment) float64 {
	return DepthToPressure(depthM, fresh, env) * fGas
}

// Schreiner solves the closed form of inert-gas loading under a linearly
// changing ambient pressure.
//
//	pBegin is the compartment's inert-gas pressure at the start of the step.
//	pInsp  is the inspired partial pressure of the gas at the start of the step.
//	t      is the duration of the step in minutes.
//	halfTime is the compartment's half-time for this gas, in minutes.
//	rate   is the rate of change of the inspired partial pressure, in bar/minute.
func Schreiner(pBegin, pInsp, t, halfTime, rate float64) float64 {
	k := math.Ln2 / halfTime
	return pInsp + rate*(t-(1.0/k)) - (pInsp-pBegin-(rate/k))*math.Exp(-k*t)
}

// Haldane solves inert-gas loading at a constant ambient pressure (rate 0).
func Haldane(pBegin, pInsp, halfTime, t float64) float64 {
	k := math.Ln2 / halfTime
	return pBegin + (pInsp-pBegin)*(1.0-math.Exp(-k*t))
}

// WaterVapourPressure returns the saturated water-vapour pressure in bar at
// the given temperature in Celsius, via the Antoine equation (the same
// Antoine-equation constants used for the 0-200C range of water).
func WaterVapourPressure(tempC float64) float64 {
	const (
		a = 8.07131
		b = 1730.63
		c = 233.426
	)
	// Antoine gives vapour pressure in mmHg; convert to bar.
	mmHg := math.Pow(10, a-b/(c+tempC))
	return mmHg * mmHgToBar
}

// LungVapourPressure is the partial pressure of water vapour in the alveoli
// at body temperature (35.2C), in bar. It is subtracted from ambient
// pressure wherever a solver needs the "dry" inspired partial pressure of a
// breathing gas.
var LungVapourPressure = WaterVapourPressure(35.2)

const mmHgToBar = 1.0 / 750.062
