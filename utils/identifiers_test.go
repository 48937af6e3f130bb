package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Simple name", "Mysore Pak", "mysore-pak"},
		{"Punctuation collapsed", "Cold-Pressed  Groundnut Oil!", "cold-pressed-groundnut-oil"},
		{"Leading and trailing noise trimmed", "  Laddu  ", "laddu"},
		{"Numbers kept", "Gift Box 500g", "gift-box-500g"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestNewOrderCode(t *testing.T) {
	code := NewOrderCode()
	assert.True(t, strings.HasPrefix(code, "SUS-"))
	assert.Len(t, code, 12) // "SUS-" + 8 hex chars
	assert.Equal(t, strings.ToUpper(code), code)

	// Codes are unique across calls
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		c := NewOrderCode()
		assert.False(t, seen[c])
		seen[c] = true
	}
}

func TestGenerateTempPassword(t *testing.T) {
	password, err := GenerateTempPassword(8)
	require.NoError(t, err)
	assert.Len(t, password, 8)

	for _, r := range password {
		assert.Contains(t, tempPasswordChars, string(r))
	}

	// Ambiguous characters never appear
	assert.NotContains(t, password, "0")
	assert.NotContains(t, password, "O")
	assert.NotContains(t, password, "l")
}
