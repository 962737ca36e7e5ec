package translit

// arabicLatin maps each base Arabic consonant (plus tā’ marbūṭa and hamza) to
// its plain Latin rendering. This table is the single source of truth for
// letter romanization: the fallback romanizer and the contextual corrector's
// assimilation rule both read it. Do not fork a second copy.
var arabicLatin = map[rune]string{
	'ا': "a",
	'ب': "b",
	'ت': "t",
	'ث': "th",
	'ج': "j",
	'ح': "h",
	'خ': "kh",
	'د': "d",
	'ذ': "dh",
	'ر': "r",
	'ز': "z",
	'س': "s",
	'ش': "sh",
	'ص': "s",
	'ض': "d",
	'ط': "t",
	'ظ': "z",
	'ع': "a",
	'غ': "gh",
	'ف': "f",
	'ق': "q",
	'ك': "k",
	'ل': "l",
	'م': "m",
	'ن': "n",
	'ه': "h",
	'و': "w",
	'ي': "y",
	'ة': "a",
	'ء': "'",
}

// sunLetters is the set of fourteen consonants that assimilate the definite
// article's lām ("al-shams" is pronounced "ash-shams").
var sunLetters = map[rune]bool{
	'ت': true,
	'ث': true,
	'د': true,
	'ذ': true,
	'ر': true,
	'ز': true,
	'س': true,
	'ش': true,
	'ص': true,
	'ض': true,
	'ط': true,
	'ظ': true,
	'ل': true,
	'ن': true,
}

// arabicDiacritics lists the combining marks stripped before romanization:
// tanwīn forms, short vowels, shadda, sukūn, and the superscript alef.
// Shadda is stripped here but read later from the diacritic-preserving text
// by the contextual corrector.
var arabicDiacritics = map[rune]bool{
	'ً': true, // fathatan
	'ٌ': true, // dammatan
	'ٍ': true, // kasratan
	'َ': true, // fatha
	'ُ': true, // damma
	'ِ': true, // kasra
	'ّ': true, // shadda
	'ْ': true, // sukun
	'ٰ': true, // superscript alef
}

// letterVariants folds orthographic letter variants onto their bare seats:
// hamza-carrying alef forms collapse to alef, alef maksura to yā’, and the
// hamza seats on wāw and yā’ to the plain letters.
var letterVariants = map[rune]rune{
	'أ': 'ا',
	'إ': 'ا',
	'آ': 'ا',
	'ٱ': 'ا',
	'ى': 'ي',
	'ؤ': 'و',
	'ئ': 'ي',
}

const (
	arabicAlef      = 'ا'
	arabicLam       = 'ل'
	arabicShadda    = 'ّ'
	arabicTaMarbuta = 'ة'
	arabicTatweel   = 'ـ'
	rightToLeftMark = '‏'
	leftToRightMark = '‎'
)
