package translit

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize prepares raw input for the pipeline: NFC composition, removal of
// control characters and bidi marks, and whitespace collapsing. Vowel
// diacritics and shadda survive; the contextual corrector reads them later.
//
// Normalize is idempotent and never fails; empty or whitespace-only input
// yields the empty string.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	raw = norm.NFC.String(raw)

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r == rightToLeftMark || r == leftToRightMark:
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}

	return collapseSpaces(b.String())
}

// StripDiacritics removes the Arabic combining marks and the tatweel
// elongation character, and folds letter variants onto their bare forms
// (hamza-on-alef to alef, alef maksura to yā’, hamza seats to wāw/yā’).
// The result is the sole input to the romanizer. Callable independently of
// Normalize.
func StripDiacritics(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if arabicDiacritics[r] || r == arabicTatweel {
			continue
		}
		if folded, ok := letterVariants[r]; ok {
			r = folded
		}
		b.WriteRune(r)
	}

	return collapseSpaces(b.String())
}

// collapseSpaces reduces any whitespace run to a single space and trims.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
