package textutil

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ContainsToken reports whether sub occurs in str as a whole token.
//
// A word boundary is required on each side of sub whose edge rune is a word
// rune ([A-Za-z0-9_]), so "a" is not found in "aa" but is found in "a a".
// Only ASCII word runes count, as with RE2's \b: non-ASCII letters such as
// "é" never form a boundary, so "écho" is found in "xécho".
// The needle is matched literally; if the pattern cannot be compiled the check
// degrades to a plain substring search. An empty needle is always contained.
//
// Example:
//
//	textutil.ContainsToken("echo AL && echo B", "echo A") // false
//	textutil.ContainsToken("echo AL && echo B", "echo B") // true
func ContainsToken(str, sub string) bool {
	if sub == "" {
		return true
	}

	re, err := tokenPattern(sub)
	if err != nil {
		return strings.Contains(str, sub)
	}
	return re.MatchString(str)
}

func tokenPattern(sub string) (*regexp.Regexp, error) {
	var b strings.Builder

	first, _ := utf8.DecodeRuneInString(sub)
	last, _ := utf8.DecodeLastRuneInString(sub)

	if isWordRune(first) {
		b.WriteString(`\b`)
	}
	b.WriteString(regexp.QuoteMeta(sub))
	if isWordRune(last) {
		b.WriteString(`\b`)
	}

	return regexp.Compile(b.String())
}

// isWordRune matches the ASCII word class used by \b in RE2.
func isWordRune(r rune) bool {
	return r < unicode.MaxASCII && (r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
}
