package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"aria/internal/textutil"
)

// unwantedAlbumWords flag release-format and edition noise in album titles.
// Tokens are compared lowercased with surrounding brackets and internal
// hyphens removed.
var unwantedAlbumWords = map[string]struct{}{
	"album":       {},
	"anniversary": {},
	"compilation": {},
	"deluxe":      {},
	"digipack":    {},
	"digipak":     {},
	"edition":     {},
	"ep":          {},
	"expanded":    {},
	"limited":     {},
	"lp":          {},
	"reedition":   {},
	"reissue":     {},
	"remaster":    {},
	"remastered":  {},
	"single":      {},
	"web":         {},
}

var featuringSeparator = regexp.MustCompile(`(?i)(^|[\s(])(featuring|feat\.?|ft\.?)[\s)]+\S+`)

// "with" is an ordinary English word far more often than a credit separator,
// so it only counts in credit positions: opening a parenthesized or bracketed
// group, or trailing the title with at most one further token after the name.
var (
	withParenCredit    = regexp.MustCompile(`(?i)[(\[]\s*with\s+(\S+)`)
	withTrailingCredit = regexp.MustCompile(`(?i)(^|\s)with\s+(\S+)(\s+\S+)?$`)
)

// ordinaryWithWords are tokens after "with" that open a phrase rather than
// name a contributor ("With The Blade", "With My Friends").
var ordinaryWithWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {},
	"my": {}, "your": {}, "his": {}, "her": {}, "its": {}, "our": {}, "their": {},
	"me": {}, "you": {}, "him": {}, "us": {}, "them": {},
	"this": {}, "that": {}, "these": {}, "those": {},
	"all": {}, "no": {}, "some": {}, "every": {},
}

// genericTitle matches placeholder titles left by rippers and taggers.
var genericTitle = regexp.MustCompile(`(?i)^(song|track)(\s+(title|name|#?\d+))?$`)

// StringHasFeaturingFragments reports whether a title embeds a second
// contributor via a featuring separator. Ordinary words that merely start
// with the separators ("Without", "Shift") do not match, and "with" only
// counts when it introduces a name-shaped token in a credit position.
func StringHasFeaturingFragments(value string) bool {
	if featuringSeparator.MatchString(value) {
		return true
	}
	if m := withParenCredit.FindStringSubmatch(value); m != nil && isCreditName(m[1]) {
		return true
	}
	if m := withTrailingCredit.FindStringSubmatch(value); m != nil && isCreditName(m[2]) {
		return true
	}
	return false
}

// isCreditName reports whether the token following "with" looks like a
// contributor name rather than the start of an ordinary phrase.
func isCreditName(token string) bool {
	token = strings.ToLower(strings.Trim(token, "()[],."))
	if token == "" {
		return false
	}
	_, ordinary := ordinaryWithWords[token]
	return !ordinary
}

// AlbumTitleHasUnwantedText reports whether an album title carries release
// noise: edition or format markers, bracketed bitrate annotations, or no text
// at all.
func AlbumTitleHasUnwantedText(title string) bool {
	if strings.TrimSpace(title) == "" {
		return true
	}
	for _, token := range strings.Fields(title) {
		stripped := strings.Trim(token, "()[]")
		word := strings.ToLower(strings.ReplaceAll(stripped, "-", ""))
		if _, ok := unwantedAlbumWords[word]; ok {
			return true
		}
		if stripped != token && stripped != "" && isAllDigits(stripped) {
			return true
		}
	}
	return false
}

// SongHasUnwantedText reports whether a song title is anything other than
// clean natural-language text: empty, un-collapsed whitespace, the bare song
// number, a redundant copy of the album title, or a featuring fragment.
func SongHasUnwantedText(albumTitle, songTitle string, songNumber int) bool {
	trimmed := strings.TrimSpace(songTitle)
	if trimmed == "" {
		return true
	}
	if textutil.CollapseWhitespace(songTitle) != songTitle {
		return true
	}
	if genericTitle.MatchString(trimmed) {
		return true
	}
	if songNumber > 0 {
		numberText := strconv.Itoa(songNumber)
		if trimmed == numberText {
			return true
		}
		for _, token := range strings.Fields(trimmed) {
			if !isAllDigits(token) {
				continue
			}
			if n, err := strconv.Atoi(token); err == nil && n == songNumber {
				return true
			}
		}
	}
	if albumTitle != "" && trimmed != albumTitle && containsDelimited(trimmed, albumTitle) {
		return true
	}
	return StringHasFeaturingFragments(trimmed)
}

// containsDelimited reports whether needle occurs in haystack bounded by
// non-alphanumeric characters (or the string edges) on both sides.
func containsDelimited(haystack, needle string) bool {
	lowerHaystack := strings.ToLower(haystack)
	lowerNeedle := strings.ToLower(needle)
	for start := 0; ; {
		idx := strings.Index(lowerHaystack[start:], lowerNeedle)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(lowerNeedle)
		beforeOk := idx == 0 || !isAlphanumericByte(haystack[idx-1])
		afterOk := end >= len(haystack) || !isAlphanumericByte(haystack[end])
		if beforeOk && afterOk {
			return true
		}
		start = idx + 1
		if start >= len(lowerHaystack) {
			return false
		}
	}
}

func isAllDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isAlphanumericByte(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
