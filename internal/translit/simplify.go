package translit

import "strings"

// scientificMarks rewrites scholarly transliteration marks into plain Latin:
// macron vowels double, emphatic underdots lose the dot, and the pharyngeal
// and glottal marks become "a" and an ASCII apostrophe.
var scientificMarks = strings.NewReplacer(
	"ā", "aa",
	"ī", "ii",
	"ū", "uu",
	"ḥ", "h",
	"ṣ", "s",
	"ṭ", "t",
	"ḍ", "d",
	"ẓ", "z",
	"ʿ", "a",
	"ˁ", "a",
	"ʾ", "'",
	"’", "'",
	"-", " ",
)

// nameCorrections is a closed, case-insensitive lexicon of common personal
// name spellings. Keys are lowercase; values carry their final casing.
// Note "bin" stays lowercase on purpose.
var nameCorrections = map[string]string{
	"mohamed":  "Muhammad",
	"mohammad": "Muhammad",
	"muhammad": "Muhammad",
	"mhmd":     "Muhammad",
	"ahmad":    "Ahmad",
	"ahmed":    "Ahmad",
	"ahmd":     "Ahmad",
	"ali":      "Ali",
	"aly":      "Ali",
	"yusuf":    "Yusuf",
	"yousef":   "Yusuf",
	"ywsf":     "Yusuf",
	"fatima":   "Fatima",
	"fatma":    "Fatima",
	"abd":      "Abd",
	"abdullah": "Abdullah",
	"abdallh":  "Abdullah",
	"omar":     "Omar",
	"amr":      "Omar",
	"hasan":    "Hasan",
	"hsn":      "Hasan",
	"husayn":   "Husayn",
	"hussein":  "Husayn",
	"khalid":   "Khalid",
	"khald":    "Khalid",
	"aisha":    "Aisha",
	"zaynab":   "Zaynab",
	"zynb":     "Zaynab",
	"bin":      "bin",
	"bn":       "bin",
	"ibn":      "ibn",
}

// simplify rewrites a scientific transliteration into a readable phonetic
// candidate: lowercase, plain-Latin mark substitution, hyphen-to-space,
// whitespace collapsing, then per-word lexicon correction with
// capitalization as the default. Empty input yields empty output.
func simplify(scientific string) string {
	if scientific == "" {
		return ""
	}

	s := strings.ToLower(scientific)
	s = scientificMarks.Replace(s)
	s = collapseSpaces(s)
	if s == "" {
		return ""
	}

	words := strings.Split(s, " ")
	for i, word := range words {
		if corrected, ok := nameCorrections[word]; ok {
			words[i] = corrected
			continue
		}
		words[i] = capitalizeWord(word)
	}
	return strings.Join(words, " ")
}
