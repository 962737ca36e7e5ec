package translit

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Resource is an optional external transliteration backend. Implementations
// are treated as untrusted: errors, panics, and empty or garbage output all
// degrade silently to the built-in letter map.
type Resource interface {
	Romanize(text string) (string, error)
}

// ResourceFunc adapts a plain function to the Resource interface.
type ResourceFunc func(text string) (string, error)

// Romanize implements Resource.
func (f ResourceFunc) Romanize(text string) (string, error) {
	if f == nil {
		return "", errors.New("translit: resource not configured")
	}
	return f(text)
}

// romanize converts stripped Arabic text to a base Latin transliteration.
// The external resource is tried first; the shared letter map is the
// fallback. Both yielding nothing is not an error; the caller treats an
// empty string as "no output".
func (t *Transliterator) romanize(stripped string) string {
	if stripped == "" {
		return ""
	}

	if t != nil && t.resource != nil {
		if out, err := callResource(t.resource, stripped); err == nil {
			if out = strings.TrimSpace(out); out != "" {
				return out
			}
		}
	}

	return romanizeFallback(stripped)
}

// callResource invokes the external resource, converting panics to errors so
// that a misbehaving backend can never take down the pipeline.
func callResource(res Resource, text string) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = ""
			err = fmt.Errorf("translit: resource panicked: %v", rec)
		}
	}()
	return res.Romanize(text)
}

// romanizeFallback maps each Arabic letter through the shared consonant
// table. Unmapped runes are dropped; spaces separate words; every word is
// capitalized.
func romanizeFallback(stripped string) string {
	words := strings.Fields(stripped)
	out := make([]string, 0, len(words))
	for _, word := range words {
		var b strings.Builder
		b.Grow(len(word))
		for _, r := range word {
			if latin, ok := arabicLatin[r]; ok {
				b.WriteString(latin)
			}
			// Unmapped characters contribute nothing.
		}
		if mapped := b.String(); mapped != "" {
			out = append(out, capitalizeWord(mapped))
		}
	}
	return strings.Join(out, " ")
}

// capitalizeWord uppercases the first rune and leaves the remainder
// untouched.
func capitalizeWord(word string) string {
	if word == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError && size <= 1 {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}
