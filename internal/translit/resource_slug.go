package translit

import (
	"strings"

	"github.com/gosimple/slug"
)

// SlugResource romanizes through the slug library's unidecode tables. Output
// is lowercase with hyphens between words; the phonetic simplifier turns
// those hyphens back into spaces downstream.
//
// slug.Make is used with its defaults rather than mutating the package-level
// slug configuration, which would race under concurrent use.
type SlugResource struct{}

// Romanize implements Resource.
func (SlugResource) Romanize(text string) (string, error) {
	words := strings.Fields(text)
	for i, word := range words {
		words[i] = slug.Make(word)
	}
	return strings.Join(words, " "), nil
}
