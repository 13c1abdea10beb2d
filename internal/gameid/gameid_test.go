package gameid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRand struct{ v int }

func (f fixedRand) Intn(n int) int { return f.v % n }

func TestGenerateIsValid(t *testing.T) {
	id := Generate()
	require.NoError(t, Validate(id))
	assert.Len(t, id, 26)
}

func TestGenerateUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := Generate()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestGenerateWithRandSource(t *testing.T) {
	id := GenerateWithRandSource(fixedRand{v: 7})
	require.NoError(t, Validate(id))
}

func TestValidateRejects(t *testing.T) {
	assert.Error(t, Validate("short"))
	// bad first character, then a character outside the alphabet
	assert.Error(t, Validate("z234567890123456789012345x"))
	assert.Error(t, Validate("0123456789012345678901234!"))
}
