package roomid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := New()
		require.NoError(t, err)
		assert.Len(t, id, Length)
		assert.True(t, Valid(id), "generated id %q should be valid", id)
		seen[id] = true
	}
	// 100 draws from a 62^6 keyspace should not collide.
	assert.Greater(t, len(seen), 95)
}

func TestNewDrawsUniformly(t *testing.T) {
	const draws = 20000
	counts := make(map[byte]int, 62)
	for i := 0; i < draws; i++ {
		id, err := New()
		require.NoError(t, err)
		for j := 0; j < len(id); j++ {
			counts[id[j]]++
		}
	}

	// Each character should land near draws*Length/62. A skewed generator,
	// such as one reducing raw bytes mod 62, overshoots this bound for the
	// first eight characters of the alphabet.
	expected := float64(draws*Length) / 62
	for c, n := range counts {
		assert.InDelta(t, expected, float64(n), expected*0.12,
			"character %q frequency out of range", string(c))
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"mixed alphanumeric", "aB3xY9", true},
		{"all digits", "123456", true},
		{"too short", "aB3", false},
		{"too long", "aB3xY9z", false},
		{"empty", "", false},
		{"special character", "aB3xY!", false},
		{"whitespace", "aB3 Y9", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.input))
		})
	}
}
