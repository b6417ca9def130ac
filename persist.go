package rhymetagger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// modelVersion is bumped whenever the saved model layout changes.
const modelVersion = 1

type alphabetJSON struct {
	Name        string `json:"name"`
	Stress      string `json:"stress"`
	Peaks       string `json:"peaks"`
	LengthMarks string `json:"length_marks,omitempty"`
	Ignore      string `json:"ignore,omitempty"`
	Tie         string `json:"tie,omitempty"`
	Syllabic    string `json:"syllabic,omitempty"`
}

type clusterJSON struct {
	Kind        string  `json:"kind"`
	Pos         int     `json:"pos"`
	First       string  `json:"first"`
	Second      string  `json:"second"`
	Probability float64 `json:"p"`
}

type ngramJSON struct {
	First       string  `json:"first"`
	Second      string  `json:"second"`
	Probability float64 `json:"p"`
}

type modelJSON struct {
	Version  int           `json:"version"`
	Settings Settings      `json:"settings"`
	Alphabet alphabetJSON  `json:"alphabet"`
	Clusters []clusterJSON `json:"clusters"`
	Ngrams   []ngramJSON   `json:"ngrams"`
}

func runeString(r rune) string {
	if r == 0 {
		return ""
	}
	return string(r)
}

// ParseClusterKind is the inverse of ClusterKind.String.
func ParseClusterKind(s string) (ClusterKind, error) {
	switch s {
	case VowelCluster.String():
		return VowelCluster, nil
	case ConsonantCluster.String():
		return ConsonantCluster, nil
	}
	return 0, fmt.Errorf("unknown cluster kind %q", s)
}

// WriteModel encodes m as indented JSON. The alphabet is saved in full so
// that models trained with custom alphabets load without the alphabet file.
func WriteModel(w io.Writer, m *Model) error {
	spec := m.Alphabet.Spec()
	out := modelJSON{
		Version:  modelVersion,
		Settings: m.Settings,
		Alphabet: alphabetJSON{
			Name:        spec.Name,
			Stress:      string(spec.Stress),
			Peaks:       spec.Peaks,
			LengthMarks: spec.LengthMarks,
			Ignore:      spec.Ignore,
			Tie:         runeString(spec.Tie),
			Syllabic:    runeString(spec.Syllabic),
		},
		Clusters: []clusterJSON{},
		Ngrams:   []ngramJSON{},
	}
	for _, e := range m.Probabilities.ClusterEntries() {
		out.Clusters = append(out.Clusters, clusterJSON{
			Kind:        e.Key.Kind.String(),
			Pos:         e.Key.Pos,
			First:       string(e.Key.First),
			Second:      string(e.Key.Second),
			Probability: e.Probability,
		})
	}
	for _, e := range m.Probabilities.NgramEntries() {
		out.Ngrams = append(out.Ngrams, ngramJSON{
			First:       e.Key.First,
			Second:      e.Key.Second,
			Probability: e.Probability,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	return nil
}

// ReadModel decodes a model written by WriteModel.
func ReadModel(r io.Reader) (*Model, error) {
	var in modelJSON
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if in.Version != modelVersion {
		return nil, fmt.Errorf("unsupported model version %d", in.Version)
	}

	spec := AlphabetSpec{
		Name:        in.Alphabet.Name,
		Stress:      Symbol(in.Alphabet.Stress),
		Peaks:       in.Alphabet.Peaks,
		LengthMarks: in.Alphabet.LengthMarks,
		Ignore:      in.Alphabet.Ignore,
	}
	var err error
	if spec.Tie, err = optionalRune(in.Alphabet.Tie); err != nil {
		return nil, fmt.Errorf("alphabet tie: %w", err)
	}
	if spec.Syllabic, err = optionalRune(in.Alphabet.Syllabic); err != nil {
		return nil, fmt.Errorf("alphabet syllabic: %w", err)
	}
	a := NewAlphabet(spec)
	if in.Settings.IgnoreVowelLength {
		a = a.WithoutLength()
	}
	if err := in.Settings.validate(false); err != nil {
		return nil, fmt.Errorf("model settings: %w", err)
	}

	probs := NewProbabilityModel()
	for _, c := range in.Clusters {
		kind, err := ParseClusterKind(c.Kind)
		if err != nil {
			return nil, err
		}
		f := Feature{Kind: kind, Pos: c.Pos}
		probs.SetCluster(NewClusterPairKey(f, Cluster(c.First), Cluster(c.Second)), c.Probability)
	}
	for _, g := range in.Ngrams {
		probs.SetNgram(NewNgramPairKey(g.First, g.Second), g.Probability)
	}
	return &Model{Settings: in.Settings, Alphabet: a, Probabilities: probs}, nil
}

func optionalRune(s string) (rune, error) {
	if s == "" {
		return 0, nil
	}
	return singleRune(s)
}

// SaveModel writes m to path.
func SaveModel(path string, m *Model) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteModel(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadModel reads a model from path.
func LoadModel(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadModel(f)
}
