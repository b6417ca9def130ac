package rhymetagger

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrEmptyCorpus is returned when statistics are requested over zero lines.
var ErrEmptyCorpus = errors.New("corpus is empty")

// ErrUnknownScoreKind is returned for an unrecognised association measure.
var ErrUnknownScoreKind = errors.New("unknown score kind")

// ScoreKind selects the collocation association measure.
type ScoreKind string

const (
	ScoreT    ScoreKind = "t-score"
	ScoreMI   ScoreKind = "mi"
	ScoreDice ScoreKind = "dice"
)

// ParseScoreKind accepts the canonical names plus a few common spellings.
func ParseScoreKind(s string) (ScoreKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t-score", "t", "tscore", "t_score":
		return ScoreT, nil
	case "mi", "mi-score", "mutual-information":
		return ScoreMI, nil
	case "dice":
		return ScoreDice, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScoreKind, s)
}

// UnmarshalText stores the canonical name, so configuration files may use
// any spelling ParseScoreKind accepts.
func (k *ScoreKind) UnmarshalText(b []byte) error {
	kind, err := ParseScoreKind(string(b))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// Scorer filters co-occurring pairs into the seed training set.
type Scorer struct {
	Kind         ScoreKind
	MinScore     float64
	MinFrequency int
}

// SeedStats summarises the seed training set.
type SeedStats struct {
	// Types is the number of accepted pairs.
	Types int
	// Tokens is the sum of their co-occurrence counts.
	Tokens int
}

// Raw computes the association measure for x and y without thresholds.
func (s Scorer) Raw(t *CollocationTable, x, y string) (float64, error) {
	kind, err := ParseScoreKind(string(s.Kind))
	if err != nil {
		return 0, err
	}
	if t.Size() == 0 {
		return 0, ErrEmptyCorpus
	}
	n := float64(t.Size())
	fx := float64(t.Frequency(x))
	fy := float64(t.Frequency(y))
	fxy := float64(t.PairCount(x, y))
	if fxy == 0 {
		return 0, nil
	}

	switch kind {
	case ScoreMI:
		return math.Log2(n * fxy / (fx * fy)), nil
	case ScoreDice:
		return 2 * fxy / (fx + fy), nil
	}
	return (fxy - fx*fy/n) / math.Sqrt(fxy), nil
}

// Score returns the association score of x and y, or 0 when the pair
// falls below MinFrequency or MinScore.
func (s Scorer) Score(t *CollocationTable, x, y string) (float64, error) {
	score, ok, err := s.accept(t, x, y)
	if err != nil || !ok {
		return 0, err
	}
	return score, nil
}

func (s Scorer) accept(t *CollocationTable, x, y string) (float64, bool, error) {
	score, err := s.Raw(t, x, y)
	if err != nil {
		return 0, false, err
	}
	fxy := t.PairCount(x, y)
	if fxy == 0 || fxy < s.MinFrequency || score < s.MinScore {
		return 0, false, nil
	}
	return score, true, nil
}

// Seed builds the initial training set from every accepted pair.
func (s Scorer) Seed(t *CollocationTable) (TrainingSet, SeedStats, error) {
	var stats SeedStats
	kind, err := ParseScoreKind(string(s.Kind))
	if err != nil {
		return TrainingSet{}, stats, err
	}
	s.Kind = kind
	if t.Size() == 0 {
		return TrainingSet{}, stats, ErrEmptyCorpus
	}

	var accepted []TokenPair
	for _, p := range t.Pairs() {
		_, ok, err := s.accept(t, p.A, p.B)
		if err != nil {
			return TrainingSet{}, stats, err
		}
		if !ok {
			continue
		}
		accepted = append(accepted, p)
		stats.Types++
		stats.Tokens += t.PairCount(p.A, p.B)
	}
	return NewTrainingSet(accepted...), stats, nil
}
