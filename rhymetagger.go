// Package rhymetagger detects rhymes in poetry without a rhyme dictionary.
// It bootstraps a probabilistic model from line-final word collocations in
// an untagged corpus, then refines it by repeatedly tagging the corpus and
// re-estimating from the tagged pairs.
//
// A typical run:
//
//	t, _ := rhymetagger.NewTrainer(rhymetagger.DefaultSettings())
//	run, err := t.Train(ctx, corpus)
//	res := run.Model.Tag(poem)
//	chains := rhymetagger.RhymeChains(res.Tagged)
package rhymetagger

// Model is a trained rhyme model together with the settings and alphabet
// it was trained with. It is safe for concurrent use once built.
type Model struct {
	Settings      Settings
	Alphabet      *Alphabet
	Probabilities *ProbabilityModel
}

// Decomposer returns the cluster decomposer of the model.
func (m *Model) Decomposer() Decomposer {
	return Decomposer{
		Alphabet:       m.Alphabet,
		MaxClusters:    m.Settings.MatchLength,
		StressTruncate: m.Settings.StressTruncate,
	}
}

func (m *Model) tagger(orthography bool) *Tagger {
	return &Tagger{
		Model:          m.Probabilities,
		Decomposer:     m.Decomposer(),
		Window:         m.Settings.Window,
		StanzaLimit:    m.Settings.StanzaLimit,
		Orthography:    orthography,
		MinProbability: m.Settings.MinProbability,
		MinNgramProb:   m.Settings.MinNgramProbability,
		NgramLen:       m.Settings.NgramLength,
	}
}

// Tagger returns a tagger over the model. The n-gram pass is on unless
// the settings disable orthography.
func (m *Model) Tagger() *Tagger {
	return m.tagger(m.Settings.OrthographyFrom > 0)
}

// Tag tags a single poem.
func (m *Model) Tag(p Poem) PoemResult {
	return m.Tagger().TagPoem(p)
}

// Normalizer returns a rhyme-word normalizer for the model's language.
func (m *Model) Normalizer() *Normalizer {
	return NewNormalizer(m.Settings.LanguageTag())
}
