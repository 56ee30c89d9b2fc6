package infer

import (
	"fmt"
	"math/big"

	"bninfer/network"
)

// WeightedValue is an optional observation: a preferred value and the
// confidence paid when the preference is violated.
type WeightedValue struct {
	Value      bool
	Confidence *big.Rat
}

// StateSpec collects the observed properties of a single state: per
// component, a required or confidence-weighted value assertion.
// Re-asserting a component replaces the prior assertion.
type StateSpec struct {
	assertions map[network.ComponentID]WeightedValue
}

// NewStateSpec returns a spec with no assertions.
func NewStateSpec() *StateSpec {
	return &StateSpec{assertions: map[network.ComponentID]WeightedValue{}}
}

// AssertMust requires the component to have the given value. Equivalent
// to AssertMay with confidence 1.
func (s *StateSpec) AssertMust(id network.ComponentID, value bool) {
	s.assertions[id] = WeightedValue{Value: value, Confidence: big.NewRat(1, 1)}
}

// AssertMay states a preference for the component to have the given
// value, trusted with the given confidence. Confidence 1 is stored
// identically to AssertMust and later classified as required.
// Panics if confidence is outside (0,1].
func (s *StateSpec) AssertMay(id network.ComponentID, value bool, confidence *big.Rat) {
	if confidence.Sign() <= 0 || confidence.Cmp(ratOne) > 0 {
		panic(fmt.Sprintf("infer: confidence %s outside (0,1]", confidence.RatString()))
	}
	s.assertions[id] = WeightedValue{Value: value, Confidence: new(big.Rat).Set(confidence)}
}

// RequiredAssertions returns the assertions with confidence exactly 1.
// Together with OptionalAssertions it partitions all stored assertions.
func (s *StateSpec) RequiredAssertions() map[network.ComponentID]bool {
	out := map[network.ComponentID]bool{}
	for id, a := range s.assertions {
		if a.Confidence.Cmp(ratOne) == 0 {
			out[id] = a.Value
		}
	}
	return out
}

// OptionalAssertions returns the assertions with confidence below 1,
// paired with their weights.
func (s *StateSpec) OptionalAssertions() map[network.ComponentID]WeightedValue {
	out := map[network.ComponentID]WeightedValue{}
	for id, a := range s.assertions {
		if a.Confidence.Cmp(ratOne) < 0 {
			out[id] = WeightedValue{Value: a.Value, Confidence: new(big.Rat).Set(a.Confidence)}
		}
	}
	return out
}

// Len returns the number of stored assertions.
func (s *StateSpec) Len() int { return len(s.assertions) }

var ratOne = big.NewRat(1, 1)
