package symbolic

import (
	"fmt"
	"math/big"

	"github.com/dalzilio/rudd"
	mapset "github.com/deckarep/golang-set/v2"

	"bninfer/network"
	"bninfer/observations"
)

// Entry identifies one (observation, component) cell of a dataset.
type Entry struct {
	Observation string
	Component   string
}

func (e Entry) String() string {
	return fmt.Sprintf("%s/%s", e.Observation, e.Component)
}

// Relaxation is one successful outcome of the naive search: the entries
// that were dropped and the non-empty set of colors under which every
// remaining observation matches some fixed point.
type Relaxation struct {
	Dropped []Entry
	Colors  rudd.Node
	Count   *big.Int
}

type flatEntry struct {
	entry     Entry
	component network.ComponentID
	value     bool
}

// NaiveSearch looks for the fewest dataset entries that must be dropped
// so that the remaining observations are jointly realizable as fixed
// points of one color. The cost is combinatorial in the number of
// entries; it is only tractable for small datasets, but unlike the
// optimization engine it guarantees minimum cardinality.
type NaiveSearch struct {
	engine  *Engine
	dataset *observations.Dataset
	// entries, flattened in deterministic order: observation ids sorted,
	// components in dataset column order.
	entries []flatEntry
	// perObservation maps an observation id to its indices in entries.
	perObservation map[string][]int
}

// NewNaiveSearch builds the search, computing the fixed-point relation
// once up front; Run reuses it unchanged across every combination tried.
func NewNaiveSearch(m *network.Model, ds *observations.Dataset) (*NaiveSearch, error) {
	engine, err := NewEngine(m)
	if err != nil {
		return nil, err
	}
	s := &NaiveSearch{engine: engine, dataset: ds, perObservation: map[string][]int{}}
	for _, id := range ds.IDs() {
		obs := ds.Observations[id]
		for _, name := range ds.Components {
			value, ok := obs.Values[name]
			if !ok {
				continue
			}
			comp, ok := m.FindComponent(name)
			if !ok {
				return nil, fmt.Errorf("symbolic: component %q not found in the network", name)
			}
			s.perObservation[id] = append(s.perObservation[id], len(s.entries))
			s.entries = append(s.entries, flatEntry{
				entry:     Entry{Observation: id, Component: name},
				component: comp,
				value:     value,
			})
		}
	}
	return s, nil
}

// Engine exposes the underlying fixed-point engine.
func (s *NaiveSearch) Engine() *Engine { return s.engine }

// Entries returns the flattened (observation, component) entries in the
// order the search indexes them.
func (s *NaiveSearch) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	for i, fe := range s.entries {
		out[i] = fe.entry
	}
	return out
}

// Run searches relaxation sizes k = 0, 1, ... and returns every
// successful relaxation at the first k where any combination succeeds.
// Combinations are tried in lexicographic order; the result order
// follows it. An empty result means even dropping everything leaves no
// color with a fixed point.
func (s *NaiveSearch) Run() []Relaxation {
	all := s.engine.AllColors()
	for k := 0; k <= len(s.entries); k++ {
		var found []Relaxation
		forEachCombination(len(s.entries), k, func(comb []int) {
			dropped := mapset.NewSet[int](comb...)
			colors := all
			for _, id := range s.dataset.IDs() {
				values := map[network.ComponentID]bool{}
				for _, idx := range s.perObservation[id] {
					if !dropped.Contains(idx) {
						values[s.entries[idx].component] = s.entries[idx].value
					}
				}
				colors = s.engine.Intersect(colors, s.engine.ColorsMatching(values))
				if s.engine.IsEmpty(colors) {
					return
				}
			}
			droppedEntries := make([]Entry, len(comb))
			for i, idx := range comb {
				droppedEntries[i] = s.entries[idx].entry
			}
			found = append(found, Relaxation{
				Dropped: droppedEntries,
				Colors:  colors,
				Count:   s.engine.ColorCount(colors),
			})
		})
		if len(found) > 0 {
			return found
		}
	}
	return nil
}

// forEachCombination visits every k-combination of {0..n-1} in
// lexicographic order.
func forEachCombination(n, k int, f func([]int)) {
	if k > n {
		return
	}
	comb := make([]int, k)
	for i := range comb {
		comb[i] = i
	}
	for {
		f(comb)
		i := k - 1
		for i >= 0 && comb[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		comb[i]++
		for j := i + 1; j < k; j++ {
			comb[j] = comb[j-1] + 1
		}
	}
}
