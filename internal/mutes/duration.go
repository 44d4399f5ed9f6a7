package mutes

import (
	"errors"
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

// ErrInvalidDuration is returned for any token not matching ^\d+[smhd]$.
// The command aborts before touching anything.
var ErrInvalidDuration = errors.New("invalid duration, expected <number><s|m|h|d>")

var durationPattern = regexp.MustCompile(`(?i)^(\d+)([smhd])$`)

var unitSeconds = map[string]int64{
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": 86400,
}

// ParseDuration converts tokens like "90s", "5m", "2h", "1d" to seconds.
func ParseDuration(token string) (int64, error) {
	m := durationPattern.FindStringSubmatch(token)
	if m == nil {
		return 0, ErrInvalidDuration
	}
	value := cast.ToInt64(m[1])
	unit, ok := unitSeconds[strings.ToLower(m[2])]
	if !ok {
		return 0, ErrInvalidDuration
	}
	return value * unit, nil
}
