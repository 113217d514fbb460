package prefs

import (
	"strconv"
)

// Every backend keeps values as strings; these helpers give them identical fail-soft parsing.

// ParseFloat parses raw, returning def when the key was missing (ok=false) or malformed.
func ParseFloat(raw string, ok bool, def float64) float64 {
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return f
}

// ParseInt parses raw, returning def when the key was missing (ok=false) or malformed.
func ParseInt(raw string, ok bool, def int) int {
	if !ok {
		return def
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return i
}

// FormatFloat renders a float the way every backend stores it.
func FormatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// FormatInt renders an int the way every backend stores it.
func FormatInt(value int) string {
	return strconv.Itoa(value)
}
