package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pass1")
	require.NoError(t, err)
	assert.NotEqual(t, "pass1", hash)

	assert.NoError(t, ComparePassword("pass1", hash))
	assert.Error(t, ComparePassword("pass2", hash))
	assert.Error(t, ComparePassword("pass1", "not-a-hash"))
}

func TestHashPassword_LongPassword(t *testing.T) {
	long := strings.Repeat("p", 100)

	hash, err := HashPassword(long)
	require.NoError(t, err)

	assert.NoError(t, ComparePassword(long, hash))
	assert.Error(t, ComparePassword(strings.Repeat("p", 71), hash))
	// Only the first 72 bytes take part in the comparison.
	assert.NoError(t, ComparePassword(strings.Repeat("p", 72)+"different tail", hash))
}
