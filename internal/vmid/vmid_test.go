package vmid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextEmptyUsedSet(t *testing.T) {
	id, err := Next(nil, 100, 999)
	require.NoError(t, err)
	assert.Equal(t, 100, id)
}

func TestNextSkipsUsed(t *testing.T) {
	id, err := Next([]int{100, 101, 103}, 100, 999)
	require.NoError(t, err)
	assert.Equal(t, 102, id)
}

func TestNextIgnoresIDsOutsideRange(t *testing.T) {
	id, err := Next([]int{1, 50, 1000}, 100, 110)
	require.NoError(t, err)
	assert.Equal(t, 100, id)
}

func TestNextRangeExhausted(t *testing.T) {
	used := []int{100, 101, 102}
	_, err := Next(used, 100, 102)
	assert.ErrorIs(t, err, ErrNoFreeID)
}

func TestNextSingleElementRange(t *testing.T) {
	id, err := Next(nil, 200, 200)
	require.NoError(t, err)
	assert.Equal(t, 200, id)

	_, err = Next([]int{200}, 200, 200)
	assert.ErrorIs(t, err, ErrNoFreeID)
}

func TestNextDeterministic(t *testing.T) {
	used := []int{105, 100, 103, 101}
	first, err := Next(used, 100, 110)
	require.NoError(t, err)

	second, err := Next(used, 100, 110)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 102, first)
}
