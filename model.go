package rhymetagger

import (
	"errors"
	"fmt"
)

// Symbol is a single opaque unit of a phonetic transcription.
// Multi-character units (tie-bar diphthongs, length-marked vowels,
// syllabic consonants) are kept together in one Symbol.
type Symbol string

// Transcription is the phonetic form of a line-final word, in reading order.
// It is never modified after it has been loaded.
type Transcription []Symbol

// String joins the symbols back into a transcription string.
func (t Transcription) String() string {
	var n int
	for _, s := range t {
		n += len(s)
	}
	b := make([]byte, 0, n)
	for _, s := range t {
		b = append(b, s...)
	}
	return string(b)
}

// SchemeLabel is a gold rhyme-scheme letter such as "A" or "B".
type SchemeLabel string

// NoRhyme marks a line that rhymes with nothing in the gold standard.
const NoRhyme SchemeLabel = "X"

// Rhymes reports whether the label takes part in gold rhyme relations.
// Both NoRhyme and the empty label are excluded.
func (s SchemeLabel) Rhymes() bool {
	return s != "" && s != NoRhyme
}

// Line is a single verse line reduced to what rhyme detection needs.
type Line struct {
	// Token is the orthographic line-final word.
	Token string
	// Transcription is the phonetic form of Token (possibly empty).
	Transcription Transcription
	// Stanza identifies the stanza; consecutive equal ids form one stanza.
	Stanza int
	// Scheme is the optional gold rhyme-scheme label.
	Scheme SchemeLabel
	// Index is the position of the line within its poem.
	Index int
}

// Poem is an ordered sequence of lines plus reporting metadata.
type Poem struct {
	// ID is an opaque identifier supplied by the loader.
	ID string
	// Period is the stratum label used to group evaluation results.
	Period string
	// Author and Title are informational only.
	Author string
	Title  string
	// Lines are in reading order.
	Lines []Line
}

// Corpus is the read-only input shared by every stage of a run.
type Corpus struct {
	Poems []Poem
}

// NumLines returns the total number of lines over all poems.
func (c *Corpus) NumLines() int {
	n := 0
	for _, p := range c.Poems {
		n += len(p.Lines)
	}
	return n
}

// ErrEmptyToken is returned by Validate for a line without a final word.
var ErrEmptyToken = errors.New("line has an empty token")

// Validate checks the loader's side of the contract: every line carries a
// token and its Index matches its position in the poem.
func (c *Corpus) Validate() error {
	for _, p := range c.Poems {
		for i, l := range p.Lines {
			if l.Token == "" {
				return fmt.Errorf("poem %q line %d: %w", p.ID, i, ErrEmptyToken)
			}
			if l.Index != i {
				return fmt.Errorf("poem %q line %d: index is %d", p.ID, i, l.Index)
			}
		}
	}
	return nil
}

// TokenPair is an unordered pair of distinct tokens, stored with A < B.
type TokenPair struct {
	A, B string
}

// NewTokenPair orders x and y canonically.
func NewTokenPair(x, y string) TokenPair {
	if y < x {
		x, y = y, x
	}
	return TokenPair{A: x, B: y}
}

// TrainingSet is the set of token pairs assumed to rhyme during one
// training iteration. A new set is built every iteration.
type TrainingSet struct {
	pairs map[TokenPair]struct{}
}

// NewTrainingSet builds a set from pairs; identical-token pairs are dropped.
func NewTrainingSet(pairs ...TokenPair) TrainingSet {
	ts := TrainingSet{pairs: make(map[TokenPair]struct{}, len(pairs))}
	for _, p := range pairs {
		if p.A == p.B {
			continue
		}
		ts.pairs[NewTokenPair(p.A, p.B)] = struct{}{}
	}
	return ts
}

// Len is the cardinality of the set.
func (ts TrainingSet) Len() int {
	return len(ts.pairs)
}

// Contains reports whether x and y are assumed to rhyme.
func (ts TrainingSet) Contains(x, y string) bool {
	_, ok := ts.pairs[NewTokenPair(x, y)]
	return ok
}

// Pairs returns the members in sorted order.
func (ts TrainingSet) Pairs() []TokenPair {
	out := make([]TokenPair, 0, len(ts.pairs))
	for p := range ts.pairs {
		out = append(out, p)
	}
	sortPairs(out)
	return out
}

// Equal reports whether both sets hold the same pairs.
func (ts TrainingSet) Equal(other TrainingSet) bool {
	if len(ts.pairs) != len(other.pairs) {
		return false
	}
	for p := range ts.pairs {
		if _, ok := other.pairs[p]; !ok {
			return false
		}
	}
	return true
}
