// Package observations loads tabular steady-state observation data and
// converts it into inference problems.
package observations

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/big"
	"os"
	"sort"
	"strings"

	"bninfer/infer"
	"bninfer/network"
)

// Observation is a partial assignment of binary values to components,
// keyed by component name.
type Observation struct {
	Values map[string]bool
}

// Dataset is a named collection of observations over a shared list of
// components.
type Dataset struct {
	Components   []string
	Observations map[string]*Observation
}

// ParseError reports a malformed cell or row in an observation table.
type ParseError struct {
	Row    int
	Column int
	Value  string
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Value != "" || e.Column > 0 {
		return fmt.Sprintf("observations: row %d, column %d: %s (value %q)", e.Row, e.Column, e.Msg, e.Value)
	}
	return fmt.Sprintf("observations: row %d: %s", e.Row, e.Msg)
}

// Parse reads a CSV observation table. The header names the components
// (column 1 is reserved for the observation identifier); each following
// row holds `0`, `1`, or one of the unspecified markers ``, `*`, `ND`,
// `?` per component. A later row reusing an observation id replaces the
// earlier one.
func Parse(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ParseError{Row: 1, Msg: "missing header row"}
	}
	if err != nil {
		return nil, &ParseError{Row: 1, Msg: err.Error()}
	}
	components := make([]string, 0, len(header)-1)
	for _, name := range header[1:] {
		components = append(components, strings.TrimSpace(name))
	}

	ds := &Dataset{Components: components, Observations: map[string]*Observation{}}
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			return ds, nil
		}
		if err != nil {
			return nil, &ParseError{Row: row, Msg: err.Error()}
		}
		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			return nil, &ParseError{Row: row, Msg: "empty observation row"}
		}
		if len(record)-1 != len(components) {
			return nil, &ParseError{Row: row, Msg: fmt.Sprintf(
				"row has %d value columns, header lists %d components", len(record)-1, len(components))}
		}
		id := strings.TrimSpace(record[0])
		obs := &Observation{Values: map[string]bool{}}
		for col, cell := range record[1:] {
			switch strings.TrimSpace(cell) {
			case "0":
				obs.Values[components[col]] = false
			case "1":
				obs.Values[components[col]] = true
			case "", "*", "ND", "?":
				// Unspecified: the component stays unconstrained.
			default:
				return nil, &ParseError{Row: row, Column: col + 2, Value: cell, Msg: "unrecognized cell value"}
			}
		}
		ds.Observations[id] = obs
	}
}

// Load reads and parses an observation table file.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("observations: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// IDs returns the observation identifiers in sorted order.
func (ds *Dataset) IDs() []string {
	ids := make([]string, 0, len(ds.Observations))
	for id := range ds.Observations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Specs converts the dataset into per-observation state specifications,
// asserting every observed value with the given uniform confidence.
// It fails when an observed component does not exist in the network, or
// when the confidence is outside (0,1].
func (ds *Dataset) Specs(m *network.Model, confidence *big.Rat) (map[string]*infer.StateSpec, error) {
	if confidence.Sign() <= 0 || confidence.Cmp(big.NewRat(1, 1)) > 0 {
		return nil, fmt.Errorf("observations: confidence %s outside (0,1]", confidence.RatString())
	}
	specs := make(map[string]*infer.StateSpec, len(ds.Observations))
	for id, obs := range ds.Observations {
		spec := infer.NewStateSpec()
		for name, value := range obs.Values {
			comp, ok := m.FindComponent(name)
			if !ok {
				return nil, fmt.Errorf("observations: component %q not found in the network", name)
			}
			spec.AssertMay(comp, value, confidence)
		}
		specs[id] = spec
	}
	return specs, nil
}

// Problem combines the dataset with a network into an inference problem:
// every observation becomes a named fixed-point state carrying the
// observation's specification.
func (ds *Dataset) Problem(m *network.Model, confidence *big.Rat) (*infer.Problem, error) {
	specs, err := ds.Specs(m, confidence)
	if err != nil {
		return nil, err
	}
	problem := infer.New(m)
	for _, id := range ds.IDs() {
		problem.MakeState(id)
		problem.AssertFixedPoint(id)
		problem.AssertObservation(id, specs[id])
	}
	return problem, nil
}
