package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		magnitude   float64
		unit        string
		shouldError bool
	}{
		{description: "magnitude with unit", input: "500 ms", magnitude: 500, unit: "ms"},
		{description: "no space", input: "-70mV", magnitude: -70, unit: "mV"},
		{description: "bare magnitude", input: "0.025", magnitude: 0.025},
		{description: "exponent", input: "1.5e-3 s", magnitude: 0.0015, unit: "s"},
		{description: "underscore unit", input: "10 per_s", magnitude: 10, unit: "per_s"},
		{description: "garbage", input: "ms 500", shouldError: true},
		{description: "trailing junk", input: "5 ms extra", shouldError: true},
		{description: "empty", input: "", shouldError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			quantity, err := ParseQuantity(tc.input)
			if tc.shouldError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.magnitude, quantity.Magnitude, 1e-12)
			assert.Equal(t, tc.unit, quantity.Unit)
		})
	}
}

func TestConvert(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		target      string
		expect      float64
		shouldError bool
	}{
		{description: "s to ms", input: "0.5 s", target: "ms", expect: 500},
		{description: "ms to ms", input: "500ms", target: "ms", expect: 500},
		{description: "bare magnitude passes through", input: "500", target: "ms", expect: 500},
		{description: "pA to nA", input: "1500 pA", target: "nA", expect: 1.5},
		{description: "mV to V", input: "-70 mV", target: "V", expect: -0.07},
		{description: "mismatched dimensions", input: "1 mV", target: "ms", shouldError: true},
		{description: "unknown unit", input: "1 lightyear", target: "m", shouldError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			value, err := Convert(tc.input, tc.target)
			if tc.shouldError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.expect, value, 1e-9)
		})
	}
}
