package adapter

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// decimalPattern accepts an optional sign, digits with an optional fraction
// (or a bare fraction) and an optional exponent. Hex, underscores, "NaN"
// and "Inf" are rejected even though strconv would accept some of them.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Unknown returns the sentinel used for numeric values that could not be
// read from the source.
func Unknown() float64 {
	return math.NaN()
}

// IsUnknown reports whether f is the unknown sentinel.
func IsUnknown(f float64) bool {
	return math.IsNaN(f)
}

// ParseFloat coerces a raw payload value into a float64. It never panics and
// never turns missing or garbled data into zero: nil, empty strings and
// non-numeric text all return Unknown.
func ParseFloat(value any) float64 {
	switch v := value.(type) {
	case nil:
		return Unknown()
	case string:
		return parseDecimalString(v)
	case *string:
		if v == nil {
			return Unknown()
		}
		return parseDecimalString(*v)
	case json.Number:
		return parseDecimalString(string(v))
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	default:
		return Unknown()
	}
}

func parseDecimalString(s string) float64 {
	s = strings.TrimSpace(s)
	if len(s) == 0 || !decimalPattern.MatchString(s) {
		return Unknown()
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// out of range values still come back as ±Inf with a range error
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f
		}
		return Unknown()
	}

	return f
}
