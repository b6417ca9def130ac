package rhymetagger

// ClusterValueKey addresses a single cluster value at one slot.
type ClusterValueKey struct {
	Feature
	Value Cluster
}

// BaselineFrequencies are the corpus-wide relative frequencies of final
// n-grams and cluster values over distinct tokens. They stand for the
// static lexicon and are computed once per run.
type BaselineFrequencies struct {
	ngrams   map[string]float64
	clusters map[ClusterValueKey]float64
}

// Lexicon is the token universe the estimators draw transcriptions from.
// *CollocationTable implements it.
type Lexicon interface {
	Tokens() []string
	Transcription(token string) (Transcription, bool)
}

// EstimateBaseline computes n-gram frequency as count / tokens and cluster
// frequency as count at a slot / tokens having that slot populated.
func EstimateBaseline(lex Lexicon, d Decomposer, ngramLen int) *BaselineFrequencies {
	ngramCount := make(map[string]int)
	clusterCount := make(map[ClusterValueKey]int)
	slotTotal := make(map[Feature]int)

	tokens := lex.Tokens()
	for _, tok := range tokens {
		ngramCount[FinalNgram(tok, ngramLen)]++

		tr, _ := lex.Transcription(tok)
		prof := d.Decompose(tr)
		for _, f := range prof.Features() {
			v, _ := prof.Lookup(f)
			clusterCount[ClusterValueKey{f, v}]++
			slotTotal[f]++
		}
	}

	b := &BaselineFrequencies{
		ngrams:   make(map[string]float64, len(ngramCount)),
		clusters: make(map[ClusterValueKey]float64, len(clusterCount)),
	}
	if len(tokens) == 0 {
		return b
	}
	for g, n := range ngramCount {
		b.ngrams[g] = float64(n) / float64(len(tokens))
	}
	for k, n := range clusterCount {
		b.clusters[k] = float64(n) / float64(slotTotal[k.Feature])
	}
	return b
}

// Ngram returns the relative frequency of a final n-gram.
func (b *BaselineFrequencies) Ngram(g string) (float64, bool) {
	f, ok := b.ngrams[g]
	return f, ok
}

// Cluster returns the relative frequency of value at slot f.
func (b *BaselineFrequencies) Cluster(f Feature, value Cluster) (float64, bool) {
	v, ok := b.clusters[ClusterValueKey{f, value}]
	return v, ok
}
