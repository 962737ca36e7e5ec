package translit

import "testing"

func TestSimplifyScientificMarks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"long vowels doubled", "kātib", "Kaatib"},
		{"underdots plain", "ḥaṣan ṭaḍaẓ", "Hasan Tadaz"},
		{"pharyngeal to a", "ʿumar", "Aumar"},
		{"glottal to apostrophe", "ʾibrāhīm", "'ibraahiim"},
		{"hyphen to space", "al-kitāb", "Al Kitaab"},
		{"whitespace collapsed", "  abu   dhabi ", "Abu Dhabi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := simplify(tt.in); got != tt.want {
				t.Fatalf("simplify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSimplifyNameCorrections(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"mohamed", "Muhammad"},
		{"MOHAMMAD", "Muhammad"},
		{"mhmd", "Muhammad"},
		{"ahmad", "Ahmad"},
		{"ali bin yusuf", "Ali bin Yusuf"},
		{"fatima", "Fatima"},
		{"abd allh", "Abd Allh"},
	}
	for _, tt := range tests {
		if got := simplify(tt.in); got != tt.want {
			t.Fatalf("simplify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSimplifyCorrectionIdempotent(t *testing.T) {
	names := []string{"Muhammad", "Ahmad", "Ali", "Yusuf", "Fatima"}
	for _, name := range names {
		if got := simplify(name); got != name {
			t.Fatalf("simplify(%q) = %q, corrections should be stable", name, got)
		}
	}
}
