package translit

import (
	"strings"
	"sync"
	"testing"
)

func TestTransliterateEmptyInput(t *testing.T) {
	tr := New()
	for _, in := range []string{"", "   ", "\t\n", "‏"} {
		if got := tr.Transliterate(in); got != "" {
			t.Fatalf("Transliterate(%q) = %q, want empty sentinel", in, got)
		}
	}
	if !IsEmptyResult("") || !IsEmptyResult("  ") {
		t.Fatal("IsEmptyResult should accept blank strings")
	}
	if IsEmptyResult("Ali") {
		t.Fatal("IsEmptyResult rejected non-empty result")
	}
}

func TestTransliterateFallbackRoundTrip(t *testing.T) {
	tr := New()
	if got := tr.Transliterate("محمد"); got != "Muhammad" {
		t.Fatalf("Transliterate(محمد) = %q, want Muhammad", got)
	}
}

func TestTransliterateSunLetterArticle(t *testing.T) {
	tr := New()
	got := tr.Transliterate("الشمس")
	first := strings.Fields(got)
	if len(first) == 0 || !strings.HasPrefix(first[0], "Ash-") {
		t.Fatalf("Transliterate(الشمس) = %q, want leading token with Ash- prefix", got)
	}
}

func TestTransliterateMoonLetterArticle(t *testing.T) {
	tr := New()
	got := tr.Transliterate("القمر")
	if !strings.HasPrefix(got, "Al-") && !strings.HasPrefix(got, "Al ") {
		t.Fatalf("Transliterate(القمر) = %q, want literal Al- or Al prefix", got)
	}
}

func TestTransliterateTaMarbuta(t *testing.T) {
	tr := New()
	for _, in := range []string{"فاطمة", "مدرسة", "وردة"} {
		got := tr.Transliterate(in)
		if got == "" {
			t.Fatalf("Transliterate(%q) returned empty", in)
		}
		last := got[len(got)-1]
		if last != 'a' && last != 'A' {
			t.Fatalf("Transliterate(%q) = %q, want trailing a", in, got)
		}
	}
}

func TestTransliterateShaddaGemination(t *testing.T) {
	tr := New()
	got := tr.Transliterate("مدرّسة")
	if !strings.Contains(strings.ToLower(got), "rr") {
		t.Fatalf("Transliterate(مدرّسة) = %q, want doubled r", got)
	}
}

func TestTransliterateVocalizedShadda(t *testing.T) {
	tr := New()
	got := tr.Transliterate("بَّ")
	if !strings.Contains(strings.ToLower(got), "bb") {
		t.Fatalf("Transliterate(بَّ) = %q, want doubled b", got)
	}
}

func TestTransliterateVocalizedSunArticle(t *testing.T) {
	tr := New()
	got := tr.Transliterate("اَلشَّمْس")
	if !strings.HasPrefix(got, "Ash-") {
		t.Fatalf("Transliterate(اَلشَّمْس) = %q, want Ash- prefix", got)
	}
	if strings.Contains(strings.ToLower(got), "shsh") {
		t.Fatalf("Transliterate(اَلشَّمْس) = %q, sun letter doubled twice", got)
	}
}

func TestTransliterateDiacriticsDoNotChangeLetters(t *testing.T) {
	tr := New()
	plain := tr.Transliterate("محمد")
	marked := tr.Transliterate("مُحَمَد")
	if plain != marked {
		t.Fatalf("diacritics changed base romanization: %q vs %q", plain, marked)
	}
}

func TestTransliterateConcurrent(t *testing.T) {
	tr := New()
	inputs := []string{"محمد", "الشمس", "القمر", "فاطمة", "عبد الله"}
	want := make([]string, len(inputs))
	for i, in := range inputs {
		want[i] = tr.Transliterate(in)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, in := range inputs {
				if got := tr.Transliterate(in); got != want[i] {
					t.Errorf("concurrent Transliterate(%q) = %q, want %q", in, got, want[i])
				}
			}
		}()
	}
	wg.Wait()
}
