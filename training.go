package rhymetagger

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// State is the phase of a training run.
type State int

const (
	Bootstrapping State = iota
	Iterating
	Converged
	Exhausted
)

func (s State) String() string {
	switch s {
	case Bootstrapping:
		return "bootstrapping"
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case Exhausted:
		return "exhausted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// IterationReport summarises one pass of the training loop.
type IterationReport struct {
	Iteration     int
	Orthography   bool
	TrainingPairs int
	ModelEntries  int
	TaggedLinks   int
	Evaluation    *EvaluationStats
}

// Run is the outcome of Trainer.Train.
type Run struct {
	State      State
	Seed       SeedStats
	Iterations []IterationReport
	// Results are the final per-poem results, aligned with the corpus.
	Results []PoemResult
	// Model produced Results.
	Model *Model
}

// Evaluation returns the evaluation of the final iteration.
func (r *Run) Evaluation() *EvaluationStats {
	if len(r.Iterations) == 0 {
		return NewEvaluationStats()
	}
	return r.Iterations[len(r.Iterations)-1].Evaluation
}

// Trainer bootstraps a rhyme model from an untagged corpus.
type Trainer struct {
	settings Settings
	alphabet *Alphabet
	logger   *zap.Logger
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(t *Trainer) { t.logger = l }
}

// WithAlphabet uses a custom alphabet instead of the built-in one named
// in the settings.
func WithAlphabet(a *Alphabet) Option {
	return func(t *Trainer) { t.alphabet = a }
}

// NewTrainer validates s and returns a Trainer.
func NewTrainer(s Settings, opts ...Option) (*Trainer, error) {
	t := &Trainer{settings: s, logger: zap.NewNop()}
	for _, o := range opts {
		o(t)
	}
	if err := s.validate(t.alphabet == nil); err != nil {
		return nil, err
	}
	// validate has already accepted the spelling
	t.settings.ScoreKind, _ = ParseScoreKind(string(s.ScoreKind))
	if t.alphabet == nil {
		a, err := AlphabetByName(s.Alphabet)
		if err != nil {
			return nil, err
		}
		t.alphabet = a
	} else {
		t.settings.Alphabet = t.alphabet.Name()
	}
	if s.IgnoreVowelLength {
		t.alphabet = t.alphabet.WithoutLength()
	}
	return t, nil
}

// Settings returns the validated settings.
func (t *Trainer) Settings() Settings {
	return t.settings
}

// Alphabet returns the alphabet transcriptions are parsed with.
func (t *Trainer) Alphabet() *Alphabet {
	return t.alphabet
}

func (t *Trainer) decomposer() Decomposer {
	return Decomposer{
		Alphabet:       t.alphabet,
		MaxClusters:    t.settings.MatchLength,
		StressTruncate: t.settings.StressTruncate,
	}
}

// Train runs the bootstrap loop over c.
//
// The seed training set comes from collocations. Each iteration estimates
// a fresh model from the current training set, tags every poem and
// replaces the training set with the tagged token pairs. The run converges
// when an iteration reproduces the previous one's tagging under the same
// orthography setting, never before iteration 3, and is exhausted after
// MaxIterations otherwise.
func (t *Trainer) Train(ctx context.Context, c *Corpus) (*Run, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s := t.settings
	run := &Run{State: Bootstrapping}

	table, err := ExtractCollocations(c, s.CollocationWindow)
	if err != nil {
		return nil, err
	}
	scorer := Scorer{Kind: s.ScoreKind, MinScore: s.MinScore, MinFrequency: s.MinFrequency}
	ts, seed, err := scorer.Seed(table)
	if err != nil {
		return nil, fmt.Errorf("seed training set: %w", err)
	}
	run.Seed = seed
	t.logger.Info("seed training set",
		zap.Int("poems", len(c.Poems)),
		zap.Int("lines", table.Size()),
		zap.Int("tokens", table.NumTokens()),
		zap.Int("types", seed.Types),
		zap.Int("pair_tokens", seed.Tokens))

	d := t.decomposer()
	base := EstimateBaseline(table, d, s.NgramLength)

	var prev []PoemResult
	for it := 1; it <= s.MaxIterations; it++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		run.State = Iterating

		ortho := s.orthography(it)
		probs := EstimateProbabilities(ts, table, base, d, s.NgramLength)
		model := &Model{Settings: s, Alphabet: t.alphabet, Probabilities: probs}
		tagger := model.tagger(ortho)

		results, err := t.tagAll(ctx, tagger, c)
		if err != nil {
			return nil, err
		}
		eval := Evaluate(c, results)

		links := 0
		for _, r := range results {
			links += r.Tagged.Len()
		}
		run.Iterations = append(run.Iterations, IterationReport{
			Iteration:     it,
			Orthography:   ortho,
			TrainingPairs: ts.Len(),
			ModelEntries:  probs.Len(),
			TaggedLinks:   links,
			Evaluation:    eval,
		})
		run.Results = results
		run.Model = model

		all, _ := eval.Stratum(AllStratum)
		t.logger.Info("iteration",
			zap.Int("iteration", it),
			zap.Bool("orthography", ortho),
			zap.Int("training_pairs", ts.Len()),
			zap.Int("model_entries", probs.Len()),
			zap.Int("links", links),
			zap.Stringer("precision", all.Precision()),
			zap.Stringer("recall", all.Recall()))

		if it >= 3 && ortho == s.orthography(it-1) && sameTagging(prev, results) {
			run.State = Converged
			break
		}
		prev = results
		ts = trainingSetFrom(results)
	}
	if run.State != Converged {
		run.State = Exhausted
	}
	t.logger.Info("training finished",
		zap.Stringer("state", run.State),
		zap.Int("iterations", len(run.Iterations)))
	return run, nil
}

// tagAll tags poems concurrently; results keep corpus order.
func (t *Trainer) tagAll(ctx context.Context, tagger *Tagger, c *Corpus) ([]PoemResult, error) {
	workers := t.settings.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]PoemResult, len(c.Poems))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range c.Poems {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = tagger.TagPoem(c.Poems[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func trainingSetFrom(results []PoemResult) TrainingSet {
	var pairs []TokenPair
	for _, r := range results {
		pairs = append(pairs, r.Candidates...)
	}
	return NewTrainingSet(pairs...)
}

func sameTagging(a, b []PoemResult) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Tagged.Equal(b[i].Tagged) {
			return false
		}
	}
	return true
}
