package params

import "fmt"

// ConfigError is returned for out-of-range or conflicting parameters
type ConfigError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// ParameterMismatchError is returned when sketches built under different parameters are compared or merged
type ParameterMismatchError struct {
	Field string
	A, B  interface{}
}

func (e *ParameterMismatchError) Error() string {
	return fmt.Sprintf("sketches were built with different %s (%v vs. %v)", e.Field, e.A, e.B)
}
