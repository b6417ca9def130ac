package rhymetagger

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func profile(vowels, consonants map[int]Cluster) ClusterProfile {
	if vowels == nil {
		vowels = map[int]Cluster{}
	}
	if consonants == nil {
		consonants = map[int]Cluster{}
	}
	return ClusterProfile{Vowels: vowels, Consonants: consonants}
}

func TestDecompose(t *testing.T) {
	tests := []struct {
		name     string
		ipa      string
		max      int
		truncate bool
		want     ClusterProfile
	}{
		{
			name: "closed syllable",
			ipa:  "lˈaɪt", max: 2, truncate: true,
			want: profile(map[int]Cluster{0: "ɪ", 1: "a"}, map[int]Cluster{0: "t", 1: NullCluster}),
		},
		{
			name: "stress truncates the onset",
			ipa:  "sˈiː", max: 2, truncate: true,
			want: profile(map[int]Cluster{0: "iː"}, map[int]Cluster{0: NullCluster}),
		},
		{
			name: "onset kept without truncation",
			ipa:  "sˈiː", max: 2, truncate: false,
			want: profile(map[int]Cluster{0: "iː"}, map[int]Cluster{0: NullCluster, 1: "s"}),
		},
		{
			name: "consonant run is one cluster",
			ipa:  "tˈɛksts", max: 3, truncate: true,
			want: profile(map[int]Cluster{0: "ɛ"}, map[int]Cluster{0: "ksts"}),
		},
		{
			name: "match length bounds the indices",
			ipa:  "ˌɪntəɹnˈæʃənəl", max: 1, truncate: true,
			want: profile(map[int]Cluster{0: "ə"}, map[int]Cluster{0: "l"}),
		},
		{
			name: "empty",
			ipa:  "", max: 2, truncate: true,
			want: profile(nil, nil),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decomposer{Alphabet: IPA, MaxClusters: tt.max, StressTruncate: tt.truncate}
			got := d.Decompose(IPA.Parse(tt.ipa))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decompose(%q) mismatch (-want +got):\n%s", tt.ipa, diff)
			}
		})
	}
}

func TestDecomposeDeterministicAndBounded(t *testing.T) {
	words := []string{"lˈaɪt", "ˌɪntəɹnˈæʃənəl", "stɹˈɛŋkθs", "ə", "ˈ", "bˈʌtn\u0329", "kkk"}
	for max := 1; max <= 4; max++ {
		d := Decomposer{Alphabet: IPA, MaxClusters: max, StressTruncate: max%2 == 0}
		for _, w := range words {
			tr := IPA.Parse(w)
			a, b := d.Decompose(tr), d.Decompose(tr)
			if !a.Equal(b) {
				t.Errorf("Decompose(%q) is not deterministic", w)
			}
			if a.Len() > max {
				t.Errorf("Decompose(%q) with max %d has %d indices", w, max, a.Len())
			}
		}
	}
}

func TestProfileFeatures(t *testing.T) {
	p := profile(map[int]Cluster{0: "ɪ", 1: "a"}, map[int]Cluster{0: "t", 1: NullCluster})
	want := []Feature{
		{VowelCluster, 0}, {ConsonantCluster, 0},
		{VowelCluster, 1}, {ConsonantCluster, 1},
	}
	if diff := cmp.Diff(want, p.Features()); diff != "" {
		t.Errorf("Features mismatch (-want +got):\n%s", diff)
	}
	if c, ok := p.Lookup(Feature{ConsonantCluster, 1}); !ok || !c.IsNull() {
		t.Errorf("Lookup(C1) = %q, %v; want null cluster", c, ok)
	}
	if _, ok := p.Lookup(Feature{VowelCluster, 2}); ok {
		t.Error("Lookup(V2) should be absent")
	}
}
