package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateNumericCode(t *testing.T) {
	code := GenerateNumericCode(6)
	assert.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9', "expected digit, got %q", c)
	}

	password := GenerateNumericCode(9)
	assert.Len(t, password, 9)

	// Two draws colliding is astronomically unlikely; a repeat here points
	// at a broken randomness source.
	assert.NotEqual(t, GenerateNumericCode(9), GenerateNumericCode(9))
}
