package adapter

import (
	"encoding/json"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFloatValid(t *testing.T) {
	testCases := []struct {
		desc     string
		input    any
		expected float64
	}{
		{"integer string", "100", 100},
		{"fraction string", "0.00012345", 0.00012345},
		{"signed", "-12.5", -12.5},
		{"plus sign", "+3", 3},
		{"exponent", "1e3", 1000},
		{"negative exponent", "2.5E-2", 0.025},
		{"bare fraction", ".5", 0.5},
		{"trailing dot", "7.", 7},
		{"surrounding spaces", " 42.1 ", 42.1},
		{"json number", json.Number("3.14"), 3.14},
		{"float64", 1.25, 1.25},
		{"float32", float32(0.5), 0.5},
		{"int", 7, 7},
		{"int64", int64(-9), -9},
		{"uint64", uint64(18), 18},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got := ParseFloat(tc.input)
			if got != tc.expected {
				t.Fatalf("value mismatch! should be %v but got %v", tc.expected, got)
			}
		})
	}
}

func TestParseFloatMatchesStrconv(t *testing.T) {
	for _, s := range []string{"0", "1", "-0.1", "123456789.987654321", "6.02214076e23", "1E-300", "0.1000000000000000055511151231257827"} {
		expected, err := strconv.ParseFloat(s, 64)
		if err != nil {
			t.Fatalf("strconv parse %s, err: %+v", s, err)
		}

		assert.Equal(t, expected, ParseFloat(s), s)
	}
}

func TestParseFloatUnknown(t *testing.T) {
	var nilString *string
	testCases := []struct {
		desc  string
		input any
	}{
		{"nil", nil},
		{"nil string pointer", nilString},
		{"empty", ""},
		{"blank", "   "},
		{"text", "abc"},
		{"thousands separator", "1,000"},
		{"hex", "0x10"},
		{"nan text", "NaN"},
		{"inf text", "Inf"},
		{"underscore", "1_000"},
		{"double dot", "1.2.3"},
		{"sign only", "-"},
		{"dangling exponent", "1e"},
		{"bool", true},
		{"map", map[string]any{"a": 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got := ParseFloat(tc.input)
			if !IsUnknown(got) {
				t.Fatalf("should be unknown but got %v", got)
			}
		})
	}
}

func TestParseFloatOutOfRange(t *testing.T) {
	assert.True(t, math.IsInf(ParseFloat("1e400"), 1))
	assert.True(t, math.IsInf(ParseFloat("-1e400"), -1))
}

func TestUnknown(t *testing.T) {
	assert.True(t, IsUnknown(Unknown()))
	assert.False(t, IsUnknown(0))
}
