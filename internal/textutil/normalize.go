package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize produces the comparison key used for artist and title matching:
// diacritics are folded away, letters are upper-cased, and everything except
// letters, digits, and single interior spaces is dropped.
func Normalize(value string) string {
	folded, _, err := transform.String(foldTransformer, value)
	if err != nil {
		folded = value
	}
	var b strings.Builder
	b.Grow(len(folded))
	inSpace := false
	for _, r := range strings.TrimSpace(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if inSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			inSpace = false
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsSpace(r):
			inSpace = true
		}
	}
	return b.String()
}
