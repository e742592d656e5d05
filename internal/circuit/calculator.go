// internal/circuit/calculator.go
//
// Equivalent-value calculator.
//
// Combination rules by kind and topology:
//
//	Kind       Series              Parallel
//	Resistor   v1+v2+v3            1/(1/v1+1/v2+1/v3)
//	Capacitor  1/(1/v1+1/v2+1/v3)  v1+v2+v3
//	Inductor   v1+v2+v3            1/(1/v1+1/v2+1/v3)
//
// Capacitors combine with the series/parallel formulas swapped.
//
// Hybrid wiring is fixed and ignores the kind: (v1+v2) + 1/(1/v2+1/v3).
// The middle value takes part in both sub-expressions.

package circuit

import (
	"errors"
	"fmt"
	"math"
)

// ErrDomain is matched (errors.Is) by every calculator failure.
var ErrDomain = errors.New("value must be greater than zero")

// DomainError reports which input made the circuit impossible to evaluate.
// Index is the zero-based value slot, or -1 when no single slot is to blame.
type DomainError struct {
	Index  int
	Value  float64
	Reason string
}

func (e *DomainError) Error() string {
	if e.Index < 0 {
		return "circuit: " + e.Reason
	}
	return fmt.Sprintf("circuit: value %d (%g): %s", e.Index+1, e.Value, e.Reason)
}

func (e *DomainError) Unwrap() error { return ErrDomain }

// Policy decides what happens to zero-valued inputs.
type Policy int

const (
	// Strict rejects any value that is not strictly positive.
	Strict Policy = iota
	// SkipZero drops zero values from reciprocal sums and lets them add
	// nothing to plain sums. Negative values are still rejected.
	SkipZero
)

func (p Policy) String() string {
	if p == SkipZero {
		return "skip-zero"
	}
	return "strict"
}

// combineFunc folds component values into one equivalent value.
type combineFunc func(values ...float64) (float64, error)

type ruleKey struct {
	kind     Kind
	topology Topology
}

// rules holds the series and parallel combination rule for every kind.
var rules = map[ruleKey]combineFunc{
	{Resistor, Series}:    sum,
	{Resistor, Parallel}:  reciprocalSum,
	{Capacitor, Series}:   reciprocalSum,
	{Capacitor, Parallel}: sum,
	{Inductor, Series}:    sum,
	{Inductor, Parallel}:  reciprocalSum,
}

// Calculator evaluates circuits under a zero-value policy.
// The zero value is a Strict calculator.
type Calculator struct {
	Policy Policy
}

// ComputeTotal evaluates a circuit with the Strict policy.
func ComputeTotal(kind Kind, topology Topology, values [3]float64) (float64, error) {
	return Calculator{}.Total(Spec{Kind: kind, Topology: topology, Values: values})
}

// Total returns the equivalent value of s.
// Unknown kinds or topologies fail validation; every value failure wraps
// ErrDomain. The result is never NaN or ±Inf.
func (c Calculator) Total(s Spec) (float64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if err := c.checkValues(s.Values); err != nil {
		return 0, err
	}

	series := rules[ruleKey{s.Kind, Series}]
	parallel := rules[ruleKey{s.Kind, Parallel}]
	v := s.Values

	var (
		total float64
		err   error
	)
	switch s.Topology {
	case Series:
		total, err = series(v[0], v[1], v[2])
	case Parallel:
		total, err = parallel(v[0], v[1], v[2])
	case Hybrid:
		total, err = hybrid(v)
	}
	if err != nil {
		return 0, err
	}
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, &DomainError{Index: -1, Value: total, Reason: "result is not a finite number"}
	}
	return total, nil
}

// checkValues applies the policy before any arithmetic happens.
func (c Calculator) checkValues(values [3]float64) error {
	for i, v := range values {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			return &DomainError{Index: i, Value: v, Reason: "not a finite number"}
		case v < 0:
			return &DomainError{Index: i, Value: v, Reason: ErrDomain.Error()}
		case v == 0 && c.Policy == Strict:
			return &DomainError{Index: i, Value: v, Reason: ErrDomain.Error()}
		}
	}
	return nil
}

func hybrid(v [3]float64) (float64, error) {
	left, _ := sum(v[0], v[1])
	right, err := reciprocalSum(v[1], v[2])
	if err != nil {
		return 0, err
	}
	return left + right, nil
}

func sum(values ...float64) (float64, error) {
	var total float64
	for _, v := range values {
		total += v
	}
	return total, nil
}

// reciprocalSum computes 1/Σ(1/v), skipping zero terms.
// Zero terms only get here under SkipZero; Strict rejects them earlier.
func reciprocalSum(values ...float64) (float64, error) {
	var inv float64
	terms := 0
	for _, v := range values {
		if v == 0 {
			continue
		}
		inv += 1 / v
		terms++
	}
	if terms == 0 {
		return 0, &DomainError{Index: -1, Reason: "every value in a reciprocal sum is zero"}
	}
	if math.IsInf(inv, 0) {
		return 0, &DomainError{Index: -1, Value: inv, Reason: "value too small to invert"}
	}
	return 1 / inv, nil
}
