package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	h, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", h)
	assert.True(t, CheckPassword("secret123", h))
	assert.False(t, CheckPassword("secret124", h))
	assert.False(t, CheckPassword("secret123", "not-a-hash"))
}

func TestSplitCSV(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"node, react , mongo", []string{"node", "react", "mongo"}},
		{"go", []string{"go"}},
		{"go,go", []string{"go", "go"}},
		{"a,,b", []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitCSV(tt.in))
		})
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)
	assert.True(t, IsID(a))
	assert.False(t, IsID("5d7a514b5d2c12c7449be042"))
	assert.False(t, IsID(""))
}

func TestGravatar(t *testing.T) {
	a := Gravatar("  Someone@Example.com ")
	b := Gravatar("someone@example.com")
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "https://www.gravatar.com/avatar/"))
	assert.Contains(t, a, "d=mm")
	assert.Contains(t, a, "s=200")
}
