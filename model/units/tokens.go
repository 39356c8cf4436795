package units

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	whitespaceCode = iota
	magnitudeCode
	symbolCode
)

// Token definitions
var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	magnitudeToken  = parsly.NewToken(magnitudeCode, "Magnitude", newMagnitudeMatcher())
	symbolToken     = parsly.NewToken(symbolCode, "Symbol", newSymbolMatcher())
)

func newMagnitudeMatcher() parsly.Matcher {
	return &magnitudeMatcher{}
}

func newSymbolMatcher() parsly.Matcher {
	return &symbolMatcher{}
}

// magnitudeMatcher matches a signed decimal with optional fraction and
// exponent.
type magnitudeMatcher struct{}

func (m *magnitudeMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	if pos >= size {
		return 0
	}

	matched := 0
	if input[pos] == '-' || input[pos] == '+' {
		matched++
	}
	digits := 0
	for i := pos + matched; i < size && isDigit(input[i]); i++ {
		matched++
		digits++
	}
	if digits == 0 {
		return 0
	}
	if i := pos + matched; i < size && input[i] == '.' {
		matched++
		for i := pos + matched; i < size && isDigit(input[i]); i++ {
			matched++
		}
	}
	if i := pos + matched; i < size && (input[i] == 'e' || input[i] == 'E') {
		expMatched := 1
		if j := i + expMatched; j < size && (input[j] == '-' || input[j] == '+') {
			expMatched++
		}
		expDigits := 0
		for j := i + expMatched; j < size && isDigit(input[j]); j++ {
			expMatched++
			expDigits++
		}
		if expDigits > 0 {
			matched += expMatched
		}
	}
	return matched
}

// symbolMatcher matches unit symbols such as ms, mV, per_s or ohm.
type symbolMatcher struct{}

func (m *symbolMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	if pos >= size {
		return 0
	}
	if !isLetter(input[pos]) {
		return 0
	}
	matched := 1
	for i := pos + 1; i < size; i++ {
		if isLetter(input[i]) || isDigit(input[i]) || input[i] == '_' {
			matched++
			continue
		}
		break
	}
	return matched
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
