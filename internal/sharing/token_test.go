package sharing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		token, err := GenerateToken()
		require.NoError(t, err)
		assert.Len(t, token, 43)
		assert.True(t, WellFormedToken(token), "generated token %q should be well formed", token)
		assert.False(t, seen[token], "duplicate token %q", token)
		seen[token] = true
	}
}

func TestWellFormedToken(t *testing.T) {
	valid, err := GenerateToken()
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"generated", valid, true},
		{"empty", "", false},
		{"too short", valid[:42], false},
		{"too long", valid + "A", false},
		{"padded", valid[:42] + "=", false},
		{"standard alphabet", strings.Repeat("+", 43), false},
		{"whitespace", " " + valid[1:], false},
		{"path traversal", "../" + valid[3:], false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WellFormedToken(tt.token))
		})
	}
}
