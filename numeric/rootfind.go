// Package numeric implements the bracketed scalar root finders the VPM-B
// solver needs: a plain bisection search and a Newton-Raphson iteration
// guarded by bisection fallback, both capped at the 100-iteration limit
// spec.md mandates for every root-finding procedure in the engine.
package numeric

import (
	"math"

	"github.com/m5lapp/decoplan/decoerr"
)

// MaxIterations is the iteration cap shared by every root finder in this
// package, per spec.md §5/§7.
const MaxIterations = 100

// Bisect finds a root of f within [lo, hi] to the given absolute tolerance
// on the bracket width. f(lo) and f(hi) must have opposite signs; otherwise
// a NumericError is returned, since the VPM-B bubble-mechanics formulas
// that call this assume a valid bracket exists.
func Bisect(f func(float64) float64, lo, hi, tolerance float64) (float64, error) {
	flo, fhi := f(lo), f(hi)
	if flo == 0 {
		return lo, nil
	}
	if fhi == 0 {
		return hi, nil
	}
	if sameSign(flo, fhi) {
		return 0, decoerr.NewNumericError("bisection bracket endpoints share a sign")
	}

	for i := 0; i < MaxIterations; i++ {
		mid := (lo + hi) / 2.0
		fmid := f(mid)

		if fmid == 0 || (hi-lo)/2.0 < tolerance {
			return mid, nil
		}

		if sameSign(fmid, flo) {
			lo, flo = mid, fmid
		} else {
			hi, fhi = mid, fmid
		}
	}

	return 0, decoerr.NewNumericError("bisection exceeded the iteration cap")
}

// NewtonRaphson finds a root of f (with derivative df) starting from x0,
// bracketed by [lo, hi]. Whenever a Newton step would leave the bracket (or
// the derivative is ~0), it falls back to a bisection step, which is the
// standard safeguard for functions whose Newton step is unreliable near a
// cubic's inflection — exactly the shape of the VPM-B crushing-pressure
// cubic this is used to solve.
func NewtonRaphson(f, df func(float64) float64, lo, hi, x0, tolerance float64) (float64, error) {
	flo, fhi := f(lo), f(hi)
	if sameSign(flo, fhi) {
		return 0, decoerr.NewNumericError("newton-raphson bracket endpoints share a sign")
	}

	x := x0
	for i := 0; i < MaxIterations; i++ {
		fx := f(x)
		if math.Abs(fx) < tolerance {
			return x, nil
		}

		var next float64
		deriv := df(x)
		if deriv != 0 {
			next = x - fx/deriv
		}

		if deriv == 0 || next < lo || next > hi {
			// Newton step left the bracket (or derivative vanished): bisect
			// instead and keep narrowing the bracket around the root.
			next = (lo + hi) / 2.0
		}

		fnext := f(next)
		if sameSign(fnext, flo) {
			lo, flo = next, fnext
		} else {
			hi, fhi = next, fnext
		}
		x = next
	}

	return 0, decoerr.NewNumericError("newton-raphson exceeded the iteration cap")
}

func sameSign(a, b float64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}
