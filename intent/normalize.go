package intent

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize composes the text to NFC and case-folds it.
func Normalize(s string) string {
	// Caser keeps state, so one per call.
	return strings.TrimSpace(cases.Fold().String(norm.NFC.String(s)))
}

// Tokens splits normalized text into words. Underscores and hyphens stay inside
// a word so reply ids such as "do_confirm" and "non-veg" remain single tokens.
func Tokens(s string) []string {
	return strings.FieldsFunc(Normalize(s), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_' || r == '-')
	})
}

func isNumber(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// DetectLanguage returns "hi" when the text carries more than two Devanagari
// characters, otherwise the customer's stored preference (default "en").
func DetectLanguage(text, preferred string) string {
	n := 0
	for _, r := range text {
		if unicode.Is(unicode.Devanagari, r) {
			n++
			if n > 2 {
				return "hi"
			}
		}
	}
	if preferred == "" {
		return "en"
	}
	return preferred
}
