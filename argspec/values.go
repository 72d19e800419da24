package argspec

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Built-in parse functions. Each one is a pure ParseFunc that can be attached
// to a FlagArg or Positional entry.

// String accepts any text verbatim, including "".
func String(raw string) (any, bool) { return raw, true }

// Int accepts decimal and 0x-prefixed hex integers with an optional sign.
func Int(raw string) (any, bool) {
	v, ok := parseInt(raw)
	return v, ok
}

// Uint accepts non-negative decimal and hex integers.
func Uint(raw string) (any, bool) {
	digits := strings.TrimPrefix(raw, "+")
	if strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+") {
		return nil, false
	}
	v, ok := parseInt(digits)
	if !ok || v < 0 {
		return nil, false
	}
	return uint(v), true
}

// Bool accepts true/false, t/f, 1/0, yes/no and on/off, case-insensitively.
func Bool(raw string) (any, bool) {
	switch strings.ToLower(raw) {
	case "true", "t", "1", "yes", "y", "on":
		return true, true
	case "false", "f", "0", "no", "n", "off":
		return false, true
	default:
		return nil, false
	}
}

// Float accepts anything strconv.ParseFloat accepts except NaN and infinities.
func Float(raw string) (any, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, false
	}
	return v, true
}

// Duration accepts "MM:SS", "HH:MM:SS", Go-style "1h30m", worded units
// ("3 sec", "2 minutes") and the extended single units d, w, M and Y.
func Duration(raw string) (any, bool) {
	v, ok := parseDuration(raw)
	if !ok {
		return nil, false
	}
	return v, true
}

// SemVer accepts a semantic version and yields *semver.Version.
func SemVer(raw string) (any, bool) {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, false
	}
	return v, true
}

// StringList splits comma-separated text, trimming blanks and dropping empty
// segments.
func StringList(raw string) (any, bool) {
	return splitList(raw), true
}

// IntList splits comma-separated integers.
func IntList(raw string) (any, bool) {
	parts := splitList(raw)
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, ok := parseInt(p)
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

// OneOf accepts exactly one of the given values (case-sensitive) and yields the
// matched string.
func OneOf(values ...string) ParseFunc {
	allowed := slices.Clone(values)
	return func(raw string) (any, bool) {
		if slices.Contains(allowed, raw) {
			return raw, true
		}
		return nil, false
	}
}

// Parser adapts a conventional typed parser into a ParseFunc.
//
//	argspec.Parser(url.Parse)
//	argspec.Parser(func(s string) (Format, error) { ... })
func Parser[T any](fn func(string) (T, error)) ParseFunc {
	return func(raw string) (any, bool) {
		v, err := fn(raw)
		if err != nil {
			return nil, false
		}
		return v, true
	}
}

func splitList(raw string) []string {
	out := make([]string, 0, strings.Count(raw, ",")+1)
	for _, seg := range strings.Split(raw, ",") {
		if seg = strings.TrimSpace(seg); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// parseInt parses decimal and hex integers using ASCII math.
func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if s == "" {
		return 0, false
	}

	base := 10
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	result := 0
	for i := 0; i < len(s); i++ {
		digit, ok := digitValue(s[i], base)
		if !ok {
			return 0, false
		}
		if result > (math.MaxInt-digit)/base {
			return 0, false
		}
		result = result*base + digit
	}
	if negative {
		result = -result
	}
	return result, true
}

func digitValue(c byte, base int) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case base == 16 && c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case base == 16 && c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}

func parseDuration(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n := strings.Count(s, ":"); n > 0 {
		return parseColonDuration(s, n)
	}
	if d, ok := parseExtendedDuration(s); ok {
		return d, true
	}
	return parseStandardDuration(s)
}

// parseColonDuration handles "MM:SS" and "HH:MM:SS".
func parseColonDuration(s string, colons int) (time.Duration, bool) {
	if colons > 2 {
		return 0, false
	}
	parts := strings.Split(s, ":")
	units := []time.Duration{time.Minute, time.Second}
	if colons == 2 {
		units = []time.Duration{time.Hour, time.Minute, time.Second}
	}
	var total time.Duration
	for i, part := range parts {
		if part == "" || part[0] == '-' || part[0] == '+' {
			return 0, false
		}
		n, ok := parseInt(part)
		if !ok {
			return 0, false
		}
		if total, ok = addDuration(total, n, units[i]); !ok {
			return 0, false
		}
	}
	return total, true
}

// parseExtendedDuration handles "1d", "2w", "1M" (30 days) and "1Y" (365 days).
// A lowercase 'm' is minutes and left to the standard parser.
func parseExtendedDuration(s string) (time.Duration, bool) {
	if len(s) < 2 {
		return 0, false
	}
	const day = 24 * time.Hour
	var unit time.Duration
	switch s[len(s)-1] {
	case 'd', 'D':
		unit = day
	case 'w', 'W':
		unit = 7 * day
	case 'M':
		unit = 30 * day
	case 'y', 'Y':
		unit = 365 * day
	default:
		return 0, false
	}
	n, ok := parseInt(s[:len(s)-1])
	if !ok || n < 0 {
		return 0, false
	}
	return addDuration(0, n, unit)
}

// parseStandardDuration handles "1h30m15s", "250ms" and "3 sec".
func parseStandardDuration(s string) (time.Duration, bool) {
	var total time.Duration
	i := 0
	for i < len(s) {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i == len(s) {
			break
		}
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if start == i {
			return 0, false // number expected before unit
		}
		n, ok := parseInt(s[start:i])
		if !ok {
			return 0, false
		}
		for i < len(s) && s[i] == ' ' {
			i++
		}
		unit, consumed := parseTimeUnit(s[i:])
		if consumed == 0 {
			return 0, false
		}
		if total, ok = addDuration(total, n, unit); !ok {
			return 0, false
		}
		i += consumed
	}
	return total, true
}

// addDuration returns total + n*unit, reporting false when the result does
// not fit in a time.Duration. total must not be negative.
func addDuration(total time.Duration, n int, unit time.Duration) (time.Duration, bool) {
	if n < 0 || int64(n) > math.MaxInt64/int64(unit) {
		return 0, false
	}
	d := time.Duration(n) * unit
	if total > math.MaxInt64-d {
		return 0, false
	}
	return total + d, true
}

var timeUnits = []struct {
	word string
	unit time.Duration
}{
	// Longest words first so "minutes" wins over "min" and "m".
	{"nanoseconds", time.Nanosecond}, {"microseconds", time.Microsecond},
	{"milliseconds", time.Millisecond}, {"seconds", time.Second}, {"second", time.Second},
	{"minutes", time.Minute}, {"minute", time.Minute}, {"hours", time.Hour}, {"hour", time.Hour},
	{"sec", time.Second}, {"min", time.Minute},
	{"ns", time.Nanosecond}, {"us", time.Microsecond}, {"µs", time.Microsecond}, {"μs", time.Microsecond},
	{"ms", time.Millisecond}, {"s", time.Second}, {"m", time.Minute}, {"h", time.Hour},
}

// parseTimeUnit returns the unit at the start of s and how many bytes it used.
func parseTimeUnit(s string) (time.Duration, int) {
	for _, u := range timeUnits {
		if len(s) >= len(u.word) && strings.EqualFold(s[:len(u.word)], u.word) {
			return u.unit, len(u.word)
		}
	}
	return 0, 0
}
