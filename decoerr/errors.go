// Package decoerr defines the error taxonomy the solvers surface:
// ConfigurationError, PlanError and NumericError. Each is a concrete type
// implementing the error interface and supporting errors.Is/errors.As via
// Unwrap, in place of the source's exception-driven control flow.
package decoerr

import "fmt"

// ConfigurationError reports an invalid, out-of-range or otherwise
// unusable solver configuration (gas fractions, VPM settings, altitude...).
type ConfigurationError struct {
	Field string
	Msg   string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("decoplan: configuration error (%s): %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("decoplan: configuration error: %s", e.Msg)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// NewConfigurationError builds a ConfigurationError for the named field.
func NewConfigurationError(field, msg string) *ConfigurationError {
	return &ConfigurationError{Field: field, Msg: msg}
}

// PlanError reports a problem with how a Plan was built or invoked: an
// unknown gas label, a call missing required arguments, no usable deco gas,
// an invalid profile code, and so on.
type PlanError struct {
	Msg string
	Err error
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("decoplan: plan error: %s", e.Msg)
}

func (e *PlanError) Unwrap() error { return e.Err }

// NewPlanError builds a PlanError with the given message.
func NewPlanError(msg string) *PlanError {
	return &PlanError{Msg: msg}
}

// NumericError reports that a bounded numerical procedure failed to
// converge or was given data it can't operate on: a root finder exceeding
// its iteration cap, a bracket whose endpoints share a sign, a decompression
// step size too large to resolve, or an off-gassing gradient insufficient
// to decompress at the current stop.
type NumericError struct {
	Msg string
	Err error
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("decoplan: numeric error: %s", e.Msg)
}

func (e *NumericError) Unwrap() error { return e.Err }

// NewNumericError builds a NumericError with the given message.
func NewNumericError(msg string) *NumericError {
	return &NumericError{Msg: msg}
}
