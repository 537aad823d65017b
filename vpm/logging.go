package vpm

import "github.com/sirupsen/logrus"

// Logger is the diagnostic logger used for the one non-fatal warning the
// spec calls out by name (§9, Open Question): the start-of-deco-zone
// bracket-failure clamp. Callers can point it at their own output or raise
// its level to silence it; it defaults to logrus's standard logger the way
// spatialmodel-inmap's cmd/inmapweb wires up its own *logrus.Logger.
var Logger = logrus.StandardLogger()

func warnDecoZoneClamp(startDepth, requestedDepth float64) {
	Logger.WithFields(logrus.Fields{
		"start_depth":     startDepth,
		"requested_depth": requestedDepth,
	}).Warn("vpm: start-of-deco-zone bracket was invalid; clamping to starting depth")
}
