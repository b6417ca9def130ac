package rhymetagger

import "sort"

// ClusterKind distinguishes vowel (peak) clusters from consonant clusters.
type ClusterKind uint8

const (
	VowelCluster ClusterKind = iota
	ConsonantCluster
)

func (k ClusterKind) String() string {
	if k == VowelCluster {
		return "vowel"
	}
	return "consonant"
}

// Cluster is the text of a cluster at one position.
type Cluster string

// NullCluster is an empty consonant cluster: the syllable had no coda.
// It compares equal to other null clusters.
const NullCluster Cluster = ""

// IsNull reports whether c is the empty consonant cluster.
func (c Cluster) IsNull() bool {
	return c == NullCluster
}

// Feature addresses one cluster slot of a profile.
type Feature struct {
	Kind ClusterKind
	// Pos counts syllables from the line end; 0 is the last one.
	Pos int
}

// ClusterProfile is the positional decomposition of a transcription.
type ClusterProfile struct {
	Vowels     map[int]Cluster
	Consonants map[int]Cluster
}

// Lookup returns the cluster at f, if the profile has one.
func (p ClusterProfile) Lookup(f Feature) (Cluster, bool) {
	var c Cluster
	var ok bool
	switch f.Kind {
	case VowelCluster:
		c, ok = p.Vowels[f.Pos]
	case ConsonantCluster:
		c, ok = p.Consonants[f.Pos]
	}
	return c, ok
}

// Features lists the populated slots ordered by position, vowel first.
func (p ClusterProfile) Features() []Feature {
	out := make([]Feature, 0, len(p.Vowels)+len(p.Consonants))
	for pos := range p.Vowels {
		out = append(out, Feature{VowelCluster, pos})
	}
	for pos := range p.Consonants {
		out = append(out, Feature{ConsonantCluster, pos})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pos != out[j].Pos {
			return out[i].Pos < out[j].Pos
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

// Len is the number of distinct cluster indices.
func (p ClusterProfile) Len() int {
	n := len(p.Vowels)
	for pos := range p.Consonants {
		if _, ok := p.Vowels[pos]; !ok {
			n++
		}
	}
	return n
}

// Equal reports whether both profiles hold the same clusters.
func (p ClusterProfile) Equal(o ClusterProfile) bool {
	return equalClusters(p.Vowels, o.Vowels) && equalClusters(p.Consonants, o.Consonants)
}

func equalClusters(a, b map[int]Cluster) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		w, ok := b[k]
		if !ok || v != w {
			return false
		}
	}
	return true
}

// Decomposer turns transcriptions into cluster profiles.
type Decomposer struct {
	Alphabet *Alphabet
	// MaxClusters bounds the number of cluster indices (the match length).
	MaxClusters int
	// StressTruncate stops at the stress marker, dropping the onset before it.
	StressTruncate bool
}

// Decompose scans tr from its end. Consonants accumulate into the cluster
// at the current index; each syllable peak fills the vowel slot, defaults
// a missing consonant slot to NullCluster and moves to the next index.
// An empty transcription yields an empty profile.
func (d Decomposer) Decompose(tr Transcription) ClusterProfile {
	p := ClusterProfile{
		Vowels:     make(map[int]Cluster),
		Consonants: make(map[int]Cluster),
	}

	i := 0
	for k := len(tr) - 1; k >= 0 && i < d.MaxClusters; k-- {
		s := tr[k]
		switch {
		case d.Alphabet.IsStress(s):
			if d.StressTruncate {
				delete(p.Consonants, i)
				return p
			}
		case d.Alphabet.IsPeak(s):
			p.Vowels[i] = Cluster(s) + p.Vowels[i]
			if _, ok := p.Consonants[i]; !ok {
				p.Consonants[i] = NullCluster
			}
			i++
		default:
			p.Consonants[i] = Cluster(s) + p.Consonants[i]
		}
	}
	return p
}
