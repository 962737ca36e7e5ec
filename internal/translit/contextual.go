package translit

import (
	"regexp"
	"strings"
)

var (
	leadingArticle  = regexp.MustCompile(`^[aA][lL][- ]?`)
	repeatedHyphens = regexp.MustCompile(`-{2,}`)
)

// applyContextualRules re-reads the diacritic-preserving original text and
// adjusts the phonetic candidate: definite-article assimilation, shadda
// gemination, and the final tā’ marbūṭa vowel. Either argument being empty
// returns the candidate unchanged.
func applyContextualRules(original, candidate string) string {
	orig := strings.TrimSpace(original)
	if orig == "" || strings.TrimSpace(candidate) == "" {
		return candidate
	}

	working := candidate
	runes := []rune(orig)

	// Rule 1: definite article. The letter after ال decides the article's
	// spelling: a sun letter assimilates the lām ("Ash-"), anything else
	// keeps it ("Al-"). Vowel marks may sit on either article letter, so
	// diacritics are skipped while matching. When the string ends right
	// after the article, the lām itself is inspected; single-letter names
	// after the article hit this path and it is kept as documented
	// behaviour. An assimilated sun letter's index is remembered: its
	// shadda is already rendered by the doubled article, so rule 2 must
	// not double it again.
	assimilated := -1
	if len(runes) >= 2 && runes[0] == arabicAlef {
		lamIdx := nextBaseIndex(runes, 1)
		if lamIdx < len(runes) && runes[lamIdx] == arabicLam {
			idx := nextBaseIndex(runes, lamIdx+1)
			if idx >= len(runes) {
				idx = lamIdx
			}
			letter := runes[idx]
			if sunLetters[letter] {
				if mapped := arabicLatin[letter]; mapped != "" {
					working = leadingArticle.ReplaceAllString(working, "A"+mapped+"-")
					assimilated = idx
				}
			} else {
				working = leadingArticle.ReplaceAllString(working, "Al-")
			}
		}
	}

	// Rule 2: shadda doubles the marked letter. NFC canonical ordering
	// places short vowels before the shadda they share a letter with, so
	// the scan walks back from each shadda over any marks to the letter
	// that carries it. Each geminated letter's mapping is doubled at its
	// first case-insensitive occurrence in the candidate, in source order.
	// A single substitution per mark is a best-effort heuristic and can
	// misfire on short mappings.
	if strings.ContainsRune(orig, arabicShadda) {
		for j, r := range runes {
			if r != arabicShadda {
				continue
			}
			i := j - 1
			for i >= 0 && arabicDiacritics[runes[i]] {
				i--
			}
			if i < 0 || i == assimilated {
				continue
			}
			if mapped := arabicLatin[runes[i]]; mapped != "" {
				working = doubleFirstOccurrence(working, mapped)
			}
		}
	}

	// Rule 3: final tā’ marbūṭa sounds as a short "a". Trailing marks,
	// tanwīn in particular, are skipped to reach the letter itself.
	last := len(runes) - 1
	for last > 0 && arabicDiacritics[runes[last]] {
		last--
	}
	if runes[last] == arabicTaMarbuta && !strings.HasSuffix(working, "a") && !strings.HasSuffix(working, "A") {
		working += "a"
	}

	working = collapseSpaces(working)
	working = repeatedHyphens.ReplaceAllString(working, "-")
	working = strings.TrimSpace(working)

	words := strings.Split(working, " ")
	for i, word := range words {
		words[i] = capitalizeWord(word)
	}
	return strings.Join(words, " ")
}

// nextBaseIndex returns the index of the first rune at or after i that is
// not a combining diacritic, or len(runes) when only marks remain.
func nextBaseIndex(runes []rune, i int) int {
	for i < len(runes) && arabicDiacritics[runes[i]] {
		i++
	}
	return i
}

// doubleFirstOccurrence doubles the first case-insensitive occurrence of seq
// in s. The candidate and all mapped sequences are ASCII at this point, so
// byte offsets into the lowercased copy are valid for the original.
func doubleFirstOccurrence(s, seq string) string {
	if s == "" || seq == "" {
		return s
	}
	idx := strings.Index(strings.ToLower(s), strings.ToLower(seq))
	if idx < 0 {
		return s
	}
	end := idx + len(seq)
	return s[:end] + strings.ToLower(seq) + s[end:]
}
