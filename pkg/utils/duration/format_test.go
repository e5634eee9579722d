package duration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := map[string]time.Duration{
		"15":       15 * time.Second,
		" 900 ":    15 * time.Minute,
		"1h30m":    90 * time.Minute,
		"250ms":    250 * time.Millisecond,
		"01:30":    90 * time.Second,
		"01:00:05": time.Hour + 5*time.Second,
	}

	for in, want := range tests {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "soon", "1:2:3:4", "aa:bb", "-1:00"} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
}

func TestHuman(t *testing.T) {
	assert.Equal(t, "1 second", Human(time.Second))
	assert.Equal(t, "15 seconds", Human(15*time.Second))
	assert.Equal(t, "15 minutes", Human(15*time.Minute))
	assert.Equal(t, "1 hour", Human(time.Hour))
	assert.Equal(t, "2 hours 1 minute", Human(2*time.Hour+time.Minute))
}
