package statemap

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a numeric widget value. NaN marks a value that was missing or
// could not be parsed; it is written to JSON as null.
type Number float64

// NaN returns the missing value.
func NaN() Number {
	return Number(math.NaN())
}

// IsNaN reports whether n is the missing value.
func (n Number) IsNaN() bool {
	return math.IsNaN(float64(n))
}

// String formats n without exponent or trailing zeros. NaN formats as "NaN".
func (n Number) String() string {
	if n.IsNaN() {
		return "NaN"
	}
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// ParseNumber coerces s to a number. Surrounding whitespace is ignored;
// "" and anything unparsable give NaN.
func ParseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return NaN()
	}
	return Number(f)
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if n.IsNaN() || math.IsInf(float64(n), 0) {
		return []byte("null"), nil
	}
	return []byte(n.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler. null reads as NaN; numeric
// strings are accepted.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = NaN()
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = ParseNumber(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}
