package translit

import "testing"

func TestNormalizeCollapsesWhitespaceAndMarks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
		{"collapse runs", "  محمد   علي ", "محمد علي"},
		{"rtl mark removed", "‏محمد‏", "محمد"},
		{"ltr mark removed", "‎ali‎", "ali"},
		{"control chars removed", "مح\x00مد", "محمد"},
		{"diacritics preserved", "مُحَمَّد", "مُحَمَّد"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"محمد",
		"  الشمس  القمر ",
		"‏ مُحَمَّد ‏",
		"plain latin text",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestStripDiacritics(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"harakat removed", "مُحَمَّد", "محمد"},
		{"tatweel removed", "محمـــد", "محمد"},
		{"hamza alef folded", "أحمد", "احمد"},
		{"madda alef folded", "آمنة", "امنة"},
		{"alef maksura folded", "مصطفى", "مصطفي"},
		{"hamza waw folded", "مؤمن", "مومن"},
		{"hamza ya folded", "رئيس", "رييس"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripDiacritics(tt.in); got != tt.want {
				t.Fatalf("StripDiacritics(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripDiacriticsLeavesNonArabicAlone(t *testing.T) {
	inputs := []string{
		"John Smith",
		"café crème",
		"1234 !?",
		"Ümit Ñoño",
	}
	for _, in := range inputs {
		if got := StripDiacritics(Normalize(in)); got != Normalize(in) {
			t.Fatalf("StripDiacritics removed letters from %q: got %q", in, got)
		}
	}
}
