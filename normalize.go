package rhymetagger

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalizer extracts rhyme words from raw verse text.
// It is safe for concurrent use.
type Normalizer struct {
	tag language.Tag
}

// NewNormalizer returns a Normalizer lower-casing with the rules of tag
// (Turkish dotless i, Dutch ij, ...).
func NewNormalizer(tag language.Tag) *Normalizer {
	return &Normalizer{tag: tag}
}

var defaultNormalizer = NewNormalizer(language.Und)

// RhymeWord returns the lower-cased final word of a verse line using
// language-neutral casing. See Normalizer.RhymeWord.
func RhymeWord(text string) string {
	return defaultNormalizer.RhymeWord(text)
}

// RhymeWord returns the lower-cased final word of text with all
// punctuation removed. Trailing tokens made only of punctuation are
// skipped, and clitic tails such as "nape's" collapse into one word
// ("napes"). It returns "" for a line with no word at all.
func (n *Normalizer) RhymeWord(text string) string {
	fields := strings.Fields(norm.NFC.String(text))
	for i := len(fields) - 1; i >= 0; i-- {
		w := stripPunct(fields[i])
		if w != "" {
			// a Caser keeps state, so each call gets its own
			return cases.Lower(n.tag).String(w)
		}
	}
	return ""
}

func stripPunct(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return -1
		}
		return r
	}, s)
}

// FinalNgram returns the last k characters (runes, not bytes) of token,
// or the whole token when it is shorter.
func FinalNgram(token string, k int) string {
	if k <= 0 {
		return ""
	}
	r := []rune(token)
	if len(r) <= k {
		return token
	}
	return string(r[len(r)-k:])
}
