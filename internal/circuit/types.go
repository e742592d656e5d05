// internal/circuit/types.go
//
// Core type definitions for the equivalent-value calculator.
// Defines:
//   - Kind: passive component kind (resistor/capacitor/inductor).
//   - Topology: how the three components are wired (series/parallel/hybrid).
//   - Spec: one immutable circuit to evaluate.

package circuit

import (
	"fmt"
	"strings"
)

// Kind is the passive component used for all three slots of a circuit.
type Kind string

const (
	Resistor  Kind = "resistor"
	Capacitor Kind = "capacitor"
	Inductor  Kind = "inductor"
)

// Kinds lists every supported component kind in display order.
var Kinds = []Kind{Resistor, Capacitor, Inductor}

// Unit returns the display suffix for values of this kind.
func (k Kind) Unit() string {
	switch k {
	case Resistor:
		return "Ω"
	case Capacitor:
		return "F"
	case Inductor:
		return "H"
	}
	return ""
}

// Valid reports whether k is one of Kinds.
func (k Kind) Valid() bool { return k.Unit() != "" }

// Topology is the wiring arrangement of the three components.
//   - "series":   v1 - v2 - v3
//   - "parallel": v1 ∥ v2 ∥ v3
//   - "hybrid":   (v1 - v2) followed by (v2 ∥ v3)
type Topology string

const (
	Series   Topology = "series"
	Parallel Topology = "parallel"
	Hybrid   Topology = "hybrid"
)

// Topologies lists every supported topology in display order.
var Topologies = []Topology{Series, Parallel, Hybrid}

// Valid reports whether t is one of Topologies.
func (t Topology) Valid() bool {
	switch t {
	case Series, Parallel, Hybrid:
		return true
	}
	return false
}

// ParseKind accepts any casing and surrounding whitespace ("Resistor", " capacitor").
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown component kind %q", s)
	}
	return k, nil
}

// ParseTopology accepts any casing and surrounding whitespace.
func ParseTopology(s string) (Topology, error) {
	t := Topology(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown topology %q", s)
	}
	return t, nil
}

// Spec is a single circuit evaluation: exactly three values of one kind
// wired in one topology.
type Spec struct {
	Kind     Kind       `json:"kind"`
	Topology Topology   `json:"topology"`
	Values   [3]float64 `json:"values"`
}

// Validate checks the enumerations only; value ranges are the calculator's job.
func (s Spec) Validate() error {
	if !s.Kind.Valid() {
		return fmt.Errorf("unknown component kind %q", s.Kind)
	}
	if !s.Topology.Valid() {
		return fmt.Errorf("unknown topology %q", s.Topology)
	}
	return nil
}
