package rhymetagger

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidWindow is returned when a window size is not positive.
var ErrInvalidWindow = errors.New("window must be positive")

// CollocationTable holds corpus-wide line-final word statistics.
// It is built once by ExtractCollocations and only read afterwards.
type CollocationTable struct {
	size           int
	freq           map[string]int
	pairs          map[TokenPair]int
	transcriptions map[string]Transcription
	order          []string
}

// ExtractCollocations counts token frequencies and co-occurrences of
// distinct tokens within window lines backward from each line.
func ExtractCollocations(c *Corpus, window int) (*CollocationTable, error) {
	if window <= 0 {
		return nil, fmt.Errorf("collocation window %d: %w", window, ErrInvalidWindow)
	}
	t := &CollocationTable{
		freq:           make(map[string]int),
		pairs:          make(map[TokenPair]int),
		transcriptions: make(map[string]Transcription),
	}
	for _, p := range c.Poems {
		t.addPoem(p.Lines, window)
	}
	return t, nil
}

func (t *CollocationTable) addPoem(lines []Line, window int) {
	for i, l := range lines {
		t.size++
		t.freq[l.Token]++
		t.observe(l)

		for j := i - 1; j >= 0 && j >= i-window; j-- {
			prev := lines[j]
			if prev.Token == l.Token {
				continue
			}
			t.pairs[NewTokenPair(l.Token, prev.Token)]++
		}
	}
}

// observe records the first transcription seen for a token.
func (t *CollocationTable) observe(l Line) {
	if _, ok := t.transcriptions[l.Token]; ok {
		return
	}
	t.transcriptions[l.Token] = l.Transcription
	t.order = append(t.order, l.Token)
}

// Size is the number of lines counted (N).
func (t *CollocationTable) Size() int {
	return t.size
}

// Frequency returns how many lines end with token.
func (t *CollocationTable) Frequency(token string) int {
	return t.freq[token]
}

// PairCount returns how often x and y co-occurred. The count is symmetric
// and always zero for x == y.
func (t *CollocationTable) PairCount(x, y string) int {
	if x == y {
		return 0
	}
	return t.pairs[NewTokenPair(x, y)]
}

// Transcription returns the representative transcription of token.
func (t *CollocationTable) Transcription(token string) (Transcription, bool) {
	tr, ok := t.transcriptions[token]
	return tr, ok
}

// Tokens returns every distinct token in sorted order.
func (t *CollocationTable) Tokens() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	sort.Strings(out)
	return out
}

// NumTokens is the number of distinct tokens.
func (t *CollocationTable) NumTokens() int {
	return len(t.order)
}

// Pairs returns every co-occurring pair in sorted order.
func (t *CollocationTable) Pairs() []TokenPair {
	out := make([]TokenPair, 0, len(t.pairs))
	for p := range t.pairs {
		out = append(out, p)
	}
	sortPairs(out)
	return out
}

func sortPairs(ps []TokenPair) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].A != ps[j].A {
			return ps[i].A < ps[j].A
		}
		return ps[i].B < ps[j].B
	})
}
