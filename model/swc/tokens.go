package swc

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	whitespaceCode = iota
	numberCode
)

// Token definitions
var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	numberToken     = parsly.NewToken(numberCode, "Number", newNumberMatcher())
)

func newNumberMatcher() parsly.Matcher {
	return &numberMatcher{}
}

// numberMatcher matches signed decimal numbers with optional fraction and
// exponent, the only value syntax SWC point lines carry.
type numberMatcher struct{}

func (m *numberMatcher) Match(cursor *parsly.Cursor) int {
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

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
