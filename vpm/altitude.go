package vpm

import "math"

// US Standard Atmosphere (1976) constants for the troposphere (0-11km),
// which comfortably covers every dive-site altitude the spec admits
// (≤ Everest).
const (
	stdSeaLevelPressurePa = 101325.0
	stdSeaLevelTempK      = 288.15
	stdLapseRateKPerM     = 0.0065
	stdGravity            = 9.80665
	stdMolarMassAir       = 0.0289644 // kg/mol
	stdGasConstant        = 8.31432   // J/(mol.K)
)

// BarometricPressureBar returns the barometric (atmospheric) pressure in
// bar at the given altitude in metres above sea level, via the US Standard
// Atmosphere (1976) troposphere formula.
func BarometricPressureBar(altitudeM float64) float64 {
	exponent := (stdGravity * stdMolarMassAir) / (stdGasConstant * stdLapseRateKPerM)
	pa := stdSeaLevelPressurePa * math.Pow(1.0-(stdLapseRateKPerM*altitudeM)/stdSeaLevelTempK, exponent)
	return pa / 100000.0
}
