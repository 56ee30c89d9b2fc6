package infer

import (
	"fmt"

	"bninfer/network"
)

// symbolRegistry gives every uninterpreted function a block of decision
// variables, one per row of its truth table: p_<fn>_<row>. Row indices
// encode arguments little-endian, bit i = argument i. The registry is
// built once per problem and shared read-only by every translation.
type symbolRegistry struct {
	rows [][]string
}

func newSymbolRegistry(m *network.Model) *symbolRegistry {
	r := &symbolRegistry{rows: make([][]string, m.NumFunctions())}
	for i := 0; i < m.NumFunctions(); i++ {
		fn := m.Function(network.FunctionID(i))
		rows := make([]string, 1<<fn.Arity)
		for row := range rows {
			rows[row] = fmt.Sprintf("p_%s_%d", fn.Name, row)
		}
		r.rows[i] = rows
	}
	return r
}

// rowVar returns the table variable of one row of the function.
// Panics on invalid ids, which indicates a bug in the caller.
func (r *symbolRegistry) rowVar(fn network.FunctionID, row int) string {
	if fn < 0 || int(fn) >= len(r.rows) {
		panic(fmt.Sprintf("infer: invalid function id %d", fn))
	}
	if row < 0 || row >= len(r.rows[fn]) {
		panic(fmt.Sprintf("infer: row %d out of range for function %d", row, fn))
	}
	return r.rows[fn][row]
}

func (r *symbolRegistry) numRows(fn network.FunctionID) int {
	return len(r.rows[fn])
}
