package decoerr

import (
	"errors"
	"testing"
)

func TestConfigurationErrorIsMatchable(t *testing.T) {
	err := fmtWrap(NewConfigurationError("fO2", "out of range"))

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("want errors.As to find a *ConfigurationError in %v", err)
	}
	if cfgErr.Field != "fO2" {
		t.Errorf("want field fO2; got %s", cfgErr.Field)
	}
}

func TestPlanAndNumericErrorsCarryMessage(t *testing.T) {
	pe := NewPlanError("unknown gas label \"50%\"")
	if pe.Error() == "" {
		t.Error("want non-empty error string")
	}

	ne := NewNumericError("root finder exceeded 100 iterations")
	if ne.Error() == "" {
		t.Error("want non-empty error string")
	}
}

// fmtWrap simulates a caller wrapping a decoerr type with additional
// context, which Unwrap must still let errors.As see through.
func fmtWrap(err error) error {
	return &PlanError{Msg: "while building plan", Err: err}
}
