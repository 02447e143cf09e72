package algorithms

import "fmt"

// InvalidParameterError reports an operation parameter outside its domain.
type InvalidParameterError struct {
	Op     string
	Param  string
	Value  any
	Reason string
}

func (e *InvalidParameterError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: invalid %s: %s", e.Op, e.Param, e.Reason)
	}
	return fmt.Sprintf("%s: invalid %s %v: %s", e.Op, e.Param, e.Value, e.Reason)
}

func checkRange(op Kind, param string, v, lo, hi int) error {
	if v < lo || v > hi {
		return &InvalidParameterError{
			Op:     op.String(),
			Param:  param,
			Value:  v,
			Reason: fmt.Sprintf("must be between %d and %d", lo, hi),
		}
	}
	return nil
}

func checkMin(op Kind, param string, v, lo int) error {
	if v < lo {
		return &InvalidParameterError{
			Op:     op.String(),
			Param:  param,
			Value:  v,
			Reason: fmt.Sprintf("must be at least %d", lo),
		}
	}
	return nil
}
