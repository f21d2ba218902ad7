package mark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyMatch(t *testing.T) {
	p, err := New(Config{Patterns: []string{
		"db.*",
		"*.Flush",
		"crypto.**",
	}})
	require.NoError(t, err)
	require.False(t, p.Empty())

	tests := []struct {
		name  string
		match bool
	}{
		{"db.Query", true},
		{"db.Exec", true},
		{"db.conn.open", false}, // '.' is a separator; * is one segment
		{"cache.Flush", true},
		{"crypto.aes.encrypt", true},
		{"net.Dial", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.match, p.Match(tt.name))
		})
	}
}

func TestPolicyEmpty(t *testing.T) {
	p, err := New(Config{})
	require.NoError(t, err)
	assert.True(t, p.Empty())
	assert.False(t, p.Match("anything"))
}

func TestPolicyBadPattern(t *testing.T) {
	_, err := New(Config{Patterns: []string{"[unterminated"}})
	assert.Error(t, err)
}
