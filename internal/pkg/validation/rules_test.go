package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.org", true},
		{"user@example", false},
		{"@example.com", false},
		{"User@Example.com", false}, // matching is lowercase only, callers normalize first
		{"", false},
		{"no-at-sign.example.com", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidEmail(tt.email), "email %q", tt.email)
	}
}

func TestIsValidJoinCode(t *testing.T) {
	assert.True(t, IsValidJoinCode("ABC123"))
	assert.True(t, IsValidJoinCode("ZZZZZZ"))
	assert.False(t, IsValidJoinCode("abc123"))
	assert.False(t, IsValidJoinCode("ABC12"))
	assert.False(t, IsValidJoinCode("ABC1234"))
	assert.False(t, IsValidJoinCode("ABC 12"))
	assert.False(t, IsValidJoinCode(""))
}

func TestIsValidPriority(t *testing.T) {
	for level := 0; level <= 3; level++ {
		assert.True(t, IsValidPriority(level))
	}
	assert.False(t, IsValidPriority(-1))
	assert.False(t, IsValidPriority(4))
}
