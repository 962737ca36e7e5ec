// Package translit converts short Arabic-script names and phrases into a
// readable Latin phonetic rendering.
//
// The pipeline runs four chained text transforms: normalization, letter
// romanization, phonetic simplification, and contextual correction against
// the diacritic-preserving source (sun-letter article assimilation, shadda
// gemination, final tā’ marbūṭa). The output is an approximate, readable
// Latinization tuned for common personal names, not a scholarly
// transliteration.
//
// All functions are safe for concurrent use by multiple goroutines; the
// lookup tables are read-only after package initialization and a
// Transliterator holds no mutable state.
//
// Known limitations:
//
//   - Shadda doubling substitutes the first case-insensitive occurrence of
//     the geminated letter's mapping and can misfire on short or repeated
//     mappings in multi-geminated words.
//   - No morphological analysis or diacritization inference is performed;
//     undiacritized consonant clusters romanize as written.
//   - Unmapped characters (digits, punctuation, non-Arabic scripts) are
//     dropped by the fallback romanizer.
package translit

import "strings"

// Transliterator runs the transliteration pipeline. The zero value uses the
// built-in letter map only; an external resource can be injected with
// WithResource.
type Transliterator struct {
	resource Resource
}

// Option customises a Transliterator.
type Option func(*Transliterator)

// WithResource injects an external transliteration backend tried before the
// built-in letter map. A nil resource leaves the fallback in place.
func WithResource(res Resource) Option {
	return func(t *Transliterator) {
		t.resource = res
	}
}

// New constructs a Transliterator.
func New(opts ...Option) *Transliterator {
	t := &Transliterator{}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Transliterate converts Arabic text to its phonetic Latin rendering.
// Empty or whitespace-only input returns the empty string; the pipeline
// itself never fails; internal misses degrade to deterministic fallbacks.
func (t *Transliterator) Transliterate(text string) string {
	rawKeep := Normalize(text)
	if rawKeep == "" {
		return ""
	}

	stripped := StripDiacritics(rawKeep)
	scientific := t.romanize(stripped)
	candidate := simplify(scientific)
	return applyContextualRules(rawKeep, candidate)
}

// IsEmptyResult reports whether a pipeline output is the empty sentinel.
func IsEmptyResult(result string) bool {
	return strings.TrimSpace(result) == ""
}
