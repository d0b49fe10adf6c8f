// Package subtitle parses cue-based subtitle documents into timed blocks.
package subtitle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedTimestamp is returned when a time code cannot be parsed.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// ParseTimestamp converts HH:MM:SS.mmm (or MM:SS.mmm, with "." or "," as the
// decimal separator) into seconds.
func ParseTimestamp(s string) (float64, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}

	hours := 0
	if len(parts) == 3 {
		h, ok := parseDigits(parts[0])
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
		}
		hours = h
		parts = parts[1:]
	}
	minutes, ok := parseDigits(parts[0])
	if !ok || minutes >= 60 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}

	secText := strings.Replace(parts[1], ",", ".", 1)
	whole, frac, hasFrac := strings.Cut(secText, ".")
	seconds, ok := parseDigits(whole)
	if !ok || seconds >= 60 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	fraction := 0.0
	if hasFrac {
		if _, ok := parseDigits(frac); !ok {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
		}
		f, err := strconv.ParseFloat("0."+frac, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
		}
		fraction = f
	}

	return float64(hours*3600+minutes*60+seconds) + fraction, nil
}

func parseDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatTimestamp renders seconds as HH:MM:SS.mmm.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	ms := int64(seconds*1000 + 0.5)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", ms/3600000, ms/60000%60, ms/1000%60, ms%1000)
}
