// Package units parses physical quantity strings such as "500 ms" or
// "-70mV" and converts them between the units used in LEMS simulation
// descriptions.
package units

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/parsly"
)

// Dimension names recognised by the converter.
const (
	Time          = "time"
	Voltage       = "voltage"
	Current       = "current"
	Capacitance   = "capacitance"
	Conductance   = "conductance"
	Resistance    = "resistance"
	Concentration = "concentration"
	Length        = "length"
	Frequency     = "per_time"
)

type unit struct {
	dimension string
	factor    float64 // multiplier to the dimension's SI base unit
}

var unitTable = map[string]unit{
	"s":     {Time, 1},
	"ms":    {Time, 1e-3},
	"us":    {Time, 1e-6},
	"min":   {Time, 60},
	"hour":  {Time, 3600},
	"V":     {Voltage, 1},
	"mV":    {Voltage, 1e-3},
	"uV":    {Voltage, 1e-6},
	"A":     {Current, 1},
	"mA":    {Current, 1e-3},
	"uA":    {Current, 1e-6},
	"nA":    {Current, 1e-9},
	"pA":    {Current, 1e-12},
	"F":     {Capacitance, 1},
	"uF":    {Capacitance, 1e-6},
	"nF":    {Capacitance, 1e-9},
	"pF":    {Capacitance, 1e-12},
	"S":     {Conductance, 1},
	"mS":    {Conductance, 1e-3},
	"uS":    {Conductance, 1e-6},
	"nS":    {Conductance, 1e-9},
	"pS":    {Conductance, 1e-12},
	"ohm":   {Resistance, 1},
	"kohm":  {Resistance, 1e3},
	"Mohm":  {Resistance, 1e6},
	"M":     {Concentration, 1e3},
	"mM":    {Concentration, 1},
	"uM":    {Concentration, 1e-3},
	"nM":    {Concentration, 1e-6},
	"m":     {Length, 1},
	"cm":    {Length, 1e-2},
	"um":    {Length, 1e-6},
	"Hz":    {Frequency, 1},
	"kHz":   {Frequency, 1e3},
	"per_s": {Frequency, 1},
}

// Quantity is a parsed magnitude with a unit symbol.
type Quantity struct {
	Magnitude float64
	Unit      string
}

// ParseQuantity parses "<magnitude>[ ]<unit>"; the unit may be absent, in
// which case the symbol is empty.
func ParseQuantity(input string) (*Quantity, error) {
	cursor := parsly.NewCursor("", []byte(input), 0)

	matched := cursor.MatchAfterOptional(whitespaceToken, magnitudeToken)
	if matched.Code != magnitudeToken.Code {
		return nil, fmt.Errorf("invalid quantity %q: magnitude expected", input)
	}
	magnitude, err := strconv.ParseFloat(matched.Text(cursor), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid quantity %q: %w", input, err)
	}

	quantity := &Quantity{Magnitude: magnitude}
	matched = cursor.MatchAfterOptional(whitespaceToken, symbolToken)
	if matched.Code == symbolToken.Code {
		quantity.Unit = matched.Text(cursor)
	}
	if rest := strings.TrimSpace(string(cursor.Input[cursor.Pos:])); rest != "" {
		return nil, fmt.Errorf("invalid quantity %q: unexpected trailing %q", input, rest)
	}
	return quantity, nil
}

// Convert converts a quantity string to the magnitude in the target unit.
// A bare magnitude is assumed to already be in the target unit.
func Convert(input string, targetUnit string) (float64, error) {
	quantity, err := ParseQuantity(input)
	if err != nil {
		return 0, err
	}
	if quantity.Unit == "" {
		return quantity.Magnitude, nil
	}
	return quantity.In(targetUnit)
}

// In returns the quantity magnitude expressed in the target unit.
func (q *Quantity) In(targetUnit string) (float64, error) {
	from, ok := unitTable[q.Unit]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", q.Unit)
	}
	to, ok := unitTable[targetUnit]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", targetUnit)
	}
	if from.dimension != to.dimension {
		return 0, fmt.Errorf("cannot convert %v (%v) to %v (%v)", q.Unit, from.dimension, targetUnit, to.dimension)
	}
	return q.Magnitude * from.factor / to.factor, nil
}
