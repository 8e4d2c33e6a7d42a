package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeTerm prepares term text for comparison:
//   - converts to Unicode NFC
//   - trims leading/trailing whitespace
//   - compresses internal whitespace runs into a single space
//
// Case is preserved: capitalization is significant in terminology text.
func NormalizeTerm(text string) string {
	text = strings.TrimSpace(norm.NFC.String(text))
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteRune(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeLanguage lower-cases and trims a language code.
func NormalizeLanguage(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// Eszett is the German sharp s.
const Eszett = "ß"

// ContainsEszett reports whether the term contains ß.
func ContainsEszett(term string) bool {
	return strings.Contains(term, Eszett)
}

// TransformEszett replaces every ß with "ss".
func TransformEszett(term string) string {
	return strings.ReplaceAll(term, Eszett, "ss")
}
