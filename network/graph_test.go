package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectedComponents(t *testing.T) {
	m, err := Parse(`
$a: b
$b: a
$c: c
$d: true
b -> a
a -> b
c -> c
`)
	require.NoError(t, err)

	assert.Equal(t, [][]ComponentID{{0, 1}, {2}, {3}}, m.ConnectedComponents())
}
