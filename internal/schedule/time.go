// Package schedule holds the pure scheduling helpers behind the dispatch
// workflow: time normalization, booking overlap detection, free-range
// computation and odometer chain resolution. Nothing here touches the
// store; every function is a deterministic function of its arguments.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidTime is returned by NormalizeTime for input that cannot be
// interpreted as a wall-clock time.
var ErrInvalidTime = errors.New("invalid time")

func isSeparator(r rune) bool {
	return r == '-' || r == '_' || r == ' ' || r == '\t'
}

// NormalizeTime parses loosely formatted human time input into canonical
// zero-padded "HH:MM". Accepted forms include "9:5", "900", "1800",
// "18-00" and "18 00". Hours run 0-23, minutes 0-59.
func NormalizeTime(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrInvalidTime
	}

	// Collapse separator runs (hyphen, underscore, inner whitespace) to a colon.
	var b strings.Builder
	inSep := false
	for _, r := range s {
		if isSeparator(r) {
			if !inSep {
				b.WriteRune(':')
				inSep = true
			}
			continue
		}
		inSep = false
		b.WriteRune(r)
	}
	s = b.String()

	if !strings.Contains(s, ":") {
		// Bare digit strings: 3 digits read as H:MM, 4 digits as HH:MM.
		digits := strings.Map(func(r rune) rune {
			if r < '0' || r > '9' {
				return -1
			}
			return r
		}, s)
		switch len(digits) {
		case 3:
			s = digits[:1] + ":" + digits[1:]
		case 4:
			s = digits[:2] + ":" + digits[2:]
		default:
			return "", ErrInvalidTime
		}
	}

	parts := strings.Split(s, ":")
	hourPart := parts[0]
	minutePart := "0"
	if len(parts) > 1 && parts[1] != "" {
		minutePart = parts[1]
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return "", ErrInvalidTime
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil {
		return "", ErrInvalidTime
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", ErrInvalidTime
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// toMinutes converts a normalized "HH:MM" string to minutes since midnight.
// "24:00" maps to 1440, the end-of-day sentinel, distinct from "00:00".
// Input is expected normalized; malformed strings yield 0.
func toMinutes(t string) int {
	h, m, ok := strings.Cut(t, ":")
	if !ok {
		return 0
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0
	}
	minute, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return hour*60 + minute
}

// toClock renders minutes since midnight back to "HH:MM". Minute 1440
// renders as the "24:00" day-end sentinel.
func toClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
