package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", hash)

	assert.NoError(t, hasher.Compare(hash, "correct-horse"))
	assert.Error(t, hasher.Compare(hash, "wrong-horse"))
}

func TestHashSaltsEachCall(t *testing.T) {
	hasher := NewBcryptHasher(4)

	first, err := hasher.Hash("correct-horse")
	require.NoError(t, err)
	second, err := hasher.Hash("correct-horse")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NoError(t, hasher.Compare(first, "correct-horse"))
	assert.NoError(t, hasher.Compare(second, "correct-horse"))
}

func TestOutOfRangeCostFallsBack(t *testing.T) {
	hasher := NewBcryptHasher(99)

	hash, err := hasher.Hash("correct-horse")
	require.NoError(t, err)
	assert.NoError(t, hasher.Compare(hash, "correct-horse"))
}
