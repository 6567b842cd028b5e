package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"30/1", 30},
		{"30000/1001", 29.97002997002997},
		{"25", 25},
		{"23.976", 23.976},
	}
	for _, tt := range tests {
		got, err := parseFrameRate(tt.raw)
		require.NoError(t, err, "input %q", tt.raw)
		assert.InDelta(t, tt.want, got, 1e-9, "input %q", tt.raw)
	}
}

func TestParseFrameRateRejectsBadInput(t *testing.T) {
	for _, raw := range []string{"", "abc", "30/0", "x/2"} {
		_, err := parseFrameRate(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "5.833", formatSeconds(5.83333333))
	assert.Equal(t, "0.000", formatSeconds(0))
	assert.Equal(t, "26.667", formatSeconds(26.66666667))
}
