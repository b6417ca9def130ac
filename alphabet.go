package rhymetagger

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// ErrUnknownAlphabet is returned by AlphabetByName for unregistered names.
var ErrUnknownAlphabet = errors.New("unknown alphabet")

// AlphabetSpec describes a phonetic alphabet in terms of rune classes.
type AlphabetSpec struct {
	// Name identifies the alphabet in settings and saved models.
	Name string
	// Stress is the primary stress marker.
	Stress Symbol
	// Peaks lists runes that start a syllable peak (vowels).
	Peaks string
	// LengthMarks attach to the preceding symbol and may be stripped.
	LengthMarks string
	// Ignore lists runes dropped while parsing (secondary stress, etc.).
	Ignore string
	// Tie joins the runes on both sides into one symbol. Zero disables it.
	Tie rune
	// Syllabic marks a consonant as a syllable peak. Zero disables it.
	Syllabic rune
}

// Alphabet classifies transcription symbols into the stress marker,
// syllable peaks and everything else (consonantal).
type Alphabet struct {
	spec         AlphabetSpec
	peaks        map[rune]struct{}
	length       map[rune]struct{}
	ignore       map[rune]struct{}
	ignoreLength bool
}

// NewAlphabet compiles spec into an Alphabet.
func NewAlphabet(spec AlphabetSpec) *Alphabet {
	return &Alphabet{
		spec:   spec,
		peaks:  runeSet(spec.Peaks),
		length: runeSet(spec.LengthMarks),
		ignore: runeSet(spec.Ignore),
	}
}

func runeSet(s string) map[rune]struct{} {
	m := make(map[rune]struct{}, len(s))
	for _, r := range s {
		m[r] = struct{}{}
	}
	return m
}

// IPA is the International Phonetic Alphabet as produced by eSpeak.
var IPA = NewAlphabet(AlphabetSpec{
	Name:        "ipa",
	Stress:      "\u02c8",
	Peaks:       "iyɨʉɯuɪʏʊeøɤoəɘɵɛœʌɔæɐaăɶɑɒ",
	LengthMarks: "\u02d0\u02d1",
	Ignore:      "\u02cc",
	Tie:         '\u0361',
	Syllabic:    '\u0329',
})

// SAMPA is the ASCII transcription scheme of older annotated corpora.
var SAMPA = NewAlphabet(AlphabetSpec{
	Name:        "sampa",
	Stress:      "'",
	Peaks:       "iye2E9{a&IYU1}@836Mu7oVOAQ0",
	LengthMarks: ":",
	Ignore:      "\"%",
	Syllabic:    '=',
})

var alphabets = map[string]*Alphabet{
	IPA.Name():   IPA,
	SAMPA.Name(): SAMPA,
}

// AlphabetByName returns a built-in alphabet.
func AlphabetByName(name string) (*Alphabet, error) {
	a, ok := alphabets[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlphabet, name)
	}
	return a, nil
}

// AlphabetNames lists the built-in alphabets.
func AlphabetNames() []string {
	names := make([]string, 0, len(alphabets))
	for n := range alphabets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Name returns the alphabet name.
func (a *Alphabet) Name() string {
	return a.spec.Name
}

// Spec returns the definition the alphabet was built from.
func (a *Alphabet) Spec() AlphabetSpec {
	return a.spec
}

// IgnoresLength reports whether Parse drops length marks.
func (a *Alphabet) IgnoresLength() bool {
	return a.ignoreLength
}

// StressMarker returns the primary stress symbol.
func (a *Alphabet) StressMarker() Symbol {
	return a.spec.Stress
}

// WithoutLength returns a copy of the alphabet whose Parse drops length
// marks, so that long and short vowels compare equal.
func (a *Alphabet) WithoutLength() *Alphabet {
	c := *a
	c.ignoreLength = true
	return &c
}

// IsStress reports whether s is the stress marker.
func (a *Alphabet) IsStress(s Symbol) bool {
	return s != "" && s == a.spec.Stress
}

// IsPeak reports whether s is a syllable peak: it starts with a vowel rune
// or carries the syllabic mark. Anything else is consonantal.
func (a *Alphabet) IsPeak(s Symbol) bool {
	first := true
	for _, r := range string(s) {
		if first {
			if _, ok := a.peaks[r]; ok {
				return true
			}
			first = false
			continue
		}
		if a.spec.Syllabic != 0 && r == a.spec.Syllabic {
			return true
		}
	}
	return false
}

// Parse splits a transcription string into symbols. Combining marks,
// length marks, the syllabic mark and tie-bar continuations stay with the
// preceding symbol; whitespace and ignored runes are dropped.
func (a *Alphabet) Parse(s string) Transcription {
	s = norm.NFC.String(s)

	var (
		out      Transcription
		cur      []rune
		joinNext bool
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, Symbol(cur))
			cur = cur[:0]
		}
		joinNext = false
	}

	stress := []rune(string(a.spec.Stress))
	for _, r := range s {
		if unicode.IsSpace(r) {
			flush()
			continue
		}
		if _, ok := a.ignore[r]; ok {
			continue
		}
		_, isLength := a.length[r]
		if isLength && a.ignoreLength {
			continue
		}
		if len(stress) == 1 && r == stress[0] {
			flush()
			out = append(out, a.spec.Stress)
			continue
		}
		attach := joinNext || isLength || unicode.Is(unicode.Mn, r) ||
			(a.spec.Syllabic != 0 && r == a.spec.Syllabic) ||
			(a.spec.Tie != 0 && r == a.spec.Tie)
		if attach && len(cur) > 0 {
			cur = append(cur, r)
			joinNext = a.spec.Tie != 0 && r == a.spec.Tie
			continue
		}
		flush()
		cur = append(cur, r)
	}
	flush()
	return out
}
