package buhlmann

import "github.com/sirupsen/logrus"

// Logger is the package-wide structured logger, exported so callers can
// swap its level or output the way spatialmodel-inmap's cmd/inmapweb wires
// up its own *logrus.Logger.
var Logger = logrus.StandardLogger()

func warnDecoStopCapExceeded(depth, minutesAtStop float64) {
	Logger.WithFields(logrus.Fields{
		"depth":           depth,
		"minutes_at_stop": minutesAtStop,
	}).Warn("buhlmann: decompression stop exceeded the safety cap before the ceiling cleared")
}
