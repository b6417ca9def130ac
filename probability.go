package rhymetagger

import "sort"

// ClusterPairKey addresses the probability that two cluster values at the
// same slot indicate a rhyme. First <= Second.
type ClusterPairKey struct {
	Feature
	First, Second Cluster
}

// NewClusterPairKey orients a and b canonically.
func NewClusterPairKey(f Feature, a, b Cluster) ClusterPairKey {
	if b < a {
		a, b = b, a
	}
	return ClusterPairKey{Feature: f, First: a, Second: b}
}

// NgramPairKey addresses the probability that two final n-grams indicate
// a rhyme. First <= Second.
type NgramPairKey struct {
	First, Second string
}

// NewNgramPairKey orients a and b canonically.
func NewNgramPairKey(a, b string) NgramPairKey {
	if b < a {
		a, b = b, a
	}
	return NgramPairKey{First: a, Second: b}
}

// ProbabilityModel maps value pairs to P(rhyme | match). A model is built
// from scratch every iteration and not modified once estimated.
type ProbabilityModel struct {
	clusters map[ClusterPairKey]float64
	ngrams   map[NgramPairKey]float64
}

// NewProbabilityModel returns an empty model. Models are normally built by
// EstimateProbabilities; this is for loaders and tests.
func NewProbabilityModel() *ProbabilityModel {
	return &ProbabilityModel{
		clusters: make(map[ClusterPairKey]float64),
		ngrams:   make(map[NgramPairKey]float64),
	}
}

// EstimateProbabilities derives P(rhyme | match) for every cluster and
// n-gram value pair observed in the training set:
//
//	P1 = co-occurrence(first, second) / marginal(first)
//	P0 = baseline frequency of second
//	P  = P1 / (P1 + P0)
//
// Value pairs without a baseline frequency are left out, so that the
// tagger's fallback priors apply to them.
func EstimateProbabilities(ts TrainingSet, lex Lexicon, base *BaselineFrequencies, d Decomposer, ngramLen int) *ProbabilityModel {
	clusterCo := make(map[ClusterPairKey]int)
	clusterMarg := make(map[ClusterValueKey]int)
	ngramCo := make(map[NgramPairKey]int)
	ngramMarg := make(map[string]int)

	for _, pair := range ts.Pairs() {
		tr1, ok1 := lex.Transcription(pair.A)
		tr2, ok2 := lex.Transcription(pair.B)
		if !ok1 || !ok2 {
			continue
		}
		p1, p2 := d.Decompose(tr1), d.Decompose(tr2)
		for _, f := range p1.Features() {
			v2, ok := p2.Lookup(f)
			if !ok {
				continue
			}
			v1, _ := p1.Lookup(f)
			k := NewClusterPairKey(f, v1, v2)
			clusterCo[k]++
			clusterMarg[ClusterValueKey{f, k.First}]++
		}

		gk := NewNgramPairKey(FinalNgram(pair.A, ngramLen), FinalNgram(pair.B, ngramLen))
		ngramCo[gk]++
		ngramMarg[gk.First]++
	}

	m := NewProbabilityModel()
	for k, co := range clusterCo {
		p0, ok := base.Cluster(k.Feature, k.Second)
		if !ok {
			continue
		}
		p1 := float64(co) / float64(clusterMarg[ClusterValueKey{k.Feature, k.First}])
		m.clusters[k] = p1 / (p1 + p0)
	}
	for k, co := range ngramCo {
		p0, ok := base.Ngram(k.Second)
		if !ok {
			continue
		}
		p1 := float64(co) / float64(ngramMarg[k.First])
		m.ngrams[k] = p1 / (p1 + p0)
	}
	return m
}

// Cluster returns P(rhyme | a at f in one word and b at f in the other).
func (m *ProbabilityModel) Cluster(f Feature, a, b Cluster) (float64, bool) {
	p, ok := m.clusters[NewClusterPairKey(f, a, b)]
	return p, ok
}

// Ngram returns P(rhyme | final n-grams a and b).
func (m *ProbabilityModel) Ngram(a, b string) (float64, bool) {
	p, ok := m.ngrams[NewNgramPairKey(a, b)]
	return p, ok
}

// SetCluster stores a cluster probability.
func (m *ProbabilityModel) SetCluster(k ClusterPairKey, p float64) {
	m.clusters[NewClusterPairKey(k.Feature, k.First, k.Second)] = p
}

// SetNgram stores an n-gram probability.
func (m *ProbabilityModel) SetNgram(k NgramPairKey, p float64) {
	m.ngrams[NewNgramPairKey(k.First, k.Second)] = p
}

// Len is the total number of entries.
func (m *ProbabilityModel) Len() int {
	return len(m.clusters) + len(m.ngrams)
}

// ClusterProbability is one cluster entry of a model.
type ClusterProbability struct {
	Key         ClusterPairKey
	Probability float64
}

// NgramProbability is one n-gram entry of a model.
type NgramProbability struct {
	Key         NgramPairKey
	Probability float64
}

// ClusterEntries lists the cluster probabilities in key order.
func (m *ProbabilityModel) ClusterEntries() []ClusterProbability {
	out := make([]ClusterProbability, 0, len(m.clusters))
	for k, p := range m.clusters {
		out = append(out, ClusterProbability{k, p})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		switch {
		case a.Pos != b.Pos:
			return a.Pos < b.Pos
		case a.Kind != b.Kind:
			return a.Kind < b.Kind
		case a.First != b.First:
			return a.First < b.First
		}
		return a.Second < b.Second
	})
	return out
}

// NgramEntries lists the n-gram probabilities in key order.
func (m *ProbabilityModel) NgramEntries() []NgramProbability {
	out := make([]NgramProbability, 0, len(m.ngrams))
	for k, p := range m.ngrams {
		out = append(out, NgramProbability{k, p})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.First != out[j].Key.First {
			return out[i].Key.First < out[j].Key.First
		}
		return out[i].Key.Second < out[j].Key.Second
	})
	return out
}

// Equal reports whether both models hold identical entries.
func (m *ProbabilityModel) Equal(o *ProbabilityModel) bool {
	if len(m.clusters) != len(o.clusters) || len(m.ngrams) != len(o.ngrams) {
		return false
	}
	for k, p := range m.clusters {
		if q, ok := o.clusters[k]; !ok || q != p {
			return false
		}
	}
	for k, p := range m.ngrams {
		if q, ok := o.ngrams[k]; !ok || q != p {
			return false
		}
	}
	return true
}
