package rhymetagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quatrainEstimates(t *testing.T) (*CollocationTable, *BaselineFrequencies, *ProbabilityModel) {
	t.Helper()
	s := quatrainSettings()
	tab, err := ExtractCollocations(quatrainCorpus(), s.CollocationWindow)
	require.NoError(t, err)
	ts, _, err := Scorer{Kind: s.ScoreKind, MinScore: s.MinScore, MinFrequency: s.MinFrequency}.Seed(tab)
	require.NoError(t, err)
	d := Decomposer{Alphabet: IPA, MaxClusters: s.MatchLength, StressTruncate: s.StressTruncate}
	base := EstimateBaseline(tab, d, s.NgramLength)
	return tab, base, EstimateProbabilities(ts, tab, base, d, s.NgramLength)
}

func TestEstimateBaseline(t *testing.T) {
	_, base, _ := quatrainEstimates(t)

	// eight distinct tokens; light and night end in "ght"
	g, ok := base.Ngram("ght")
	require.True(t, ok)
	assert.InDelta(t, 2.0/8, g, 1e-12)

	// four of eight tokens end in the vowel ɪ
	v, ok := base.Cluster(Feature{VowelCluster, 0}, "ɪ")
	require.True(t, ok)
	assert.InDelta(t, 4.0/8, v, 1e-12)

	// six tokens have a second vowel slot; two of them hold "a"
	v, ok = base.Cluster(Feature{VowelCluster, 1}, "a")
	require.True(t, ok)
	assert.InDelta(t, 2.0/6, v, 1e-12)

	_, ok = base.Cluster(Feature{VowelCluster, 0}, "y")
	assert.False(t, ok)
}

func TestEstimateProbabilities(t *testing.T) {
	_, _, m := quatrainEstimates(t)

	tests := []struct {
		f    Feature
		a, b Cluster
		want float64
	}{
		// P1 = 2/2, P0 = 4/8
		{Feature{VowelCluster, 0}, "ɪ", "ɪ", 1 / 1.5},
		// P1 = 1/1, P0 = 2/8
		{Feature{ConsonantCluster, 0}, "t", "t", 1 / 1.25},
		// P1 = 3/3, P0 = 6/6
		{Feature{ConsonantCluster, 1}, NullCluster, NullCluster, 0.5},
	}
	for _, tt := range tests {
		got, ok := m.Cluster(tt.f, tt.a, tt.b)
		require.True(t, ok, "%v %q/%q", tt.f, tt.a, tt.b)
		assert.InDelta(t, tt.want, got, 1e-12, "%v %q/%q", tt.f, tt.a, tt.b)
	}

	// crossing values never occur in the training set
	_, ok := m.Cluster(Feature{ConsonantCluster, 0}, "t", NullCluster)
	assert.False(t, ok)

	// P1 = 1/1, P0 = 2/8
	g, ok := m.Ngram("ght", "ght")
	require.True(t, ok)
	assert.InDelta(t, 0.8, g, 1e-12)
}

func TestProbabilitiesWithinOpenUnitInterval(t *testing.T) {
	_, _, m := quatrainEstimates(t)
	require.NotZero(t, m.Len())
	for _, e := range m.ClusterEntries() {
		if e.Probability <= 0 || e.Probability >= 1 {
			t.Errorf("cluster %+v: probability %g outside (0,1)", e.Key, e.Probability)
		}
	}
	for _, e := range m.NgramEntries() {
		if e.Probability <= 0 || e.Probability >= 1 {
			t.Errorf("ngram %+v: probability %g outside (0,1)", e.Key, e.Probability)
		}
	}
}

func TestPairKeysAreCanonical(t *testing.T) {
	f := Feature{ConsonantCluster, 0}
	assert.Equal(t, NewClusterPairKey(f, "t", "d"), NewClusterPairKey(f, "d", "t"))
	assert.Equal(t, NewNgramPairKey("ght", "ay"), NewNgramPairKey("ay", "ght"))

	m := NewProbabilityModel()
	m.SetCluster(ClusterPairKey{Feature: f, First: "t", Second: "d"}, 0.3)
	p, ok := m.Cluster(f, "d", "t")
	require.True(t, ok)
	assert.Equal(t, 0.3, p)
}

func TestEstimateIsPure(t *testing.T) {
	tab, base, m := quatrainEstimates(t)
	s := quatrainSettings()
	ts, _, err := Scorer{Kind: s.ScoreKind, MinScore: s.MinScore, MinFrequency: s.MinFrequency}.Seed(tab)
	require.NoError(t, err)
	d := Decomposer{Alphabet: IPA, MaxClusters: s.MatchLength, StressTruncate: s.StressTruncate}
	again := EstimateProbabilities(ts, tab, base, d, s.NgramLength)
	assert.True(t, m.Equal(again))
}
