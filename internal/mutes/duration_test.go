package mutes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration_Valid(t *testing.T) {
	cases := map[string]int64{
		"90s": 90,
		"5m":  300,
		"2h":  7200,
		"1d":  86400,
		"1D":  86400, // units are case-insensitive
		"10M": 600,
		"0s":  0, // zero matches the grammar and parses exactly
	}
	for token, want := range cases {
		got, err := ParseDuration(token)
		require.NoError(t, err, token)
		assert.Equal(t, want, got, token)
	}
}

func TestParseDuration_Invalid(t *testing.T) {
	for _, token := range []string{"", "5", "m", "5w", "5.5m", "-5m", "5m5", " 5m"} {
		_, err := ParseDuration(token)
		assert.ErrorIs(t, err, ErrInvalidDuration, token)
	}
}
