package corpusio

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/versotym/rhymetagger"
)

const sample = `{
  "language": "en",
  "poems": [
    {
      "id": "q1",
      "period": "1850",
      "title": "Evening",
      "stanzas": [
        [
          {"text": "The lamp was burning bright,", "ipa": "ðə lˈæmp wəz bˈɜːnɪŋ bɹˈaɪt", "scheme": "A"},
          {"text": "We walked along the bay;", "ipa": "wiː wˈɔːkt əlˈɒŋ ðə bˈeɪ", "scheme": "B"}
        ],
        [
          {"text": "---"},
          {"text": "And then it turned to NIGHT!", "ipa": "and ðˈɛn ɪt tˈɜːnd tə nˈaɪt", "scheme": "A"}
        ]
      ]
    },
    {"stanzas": [[{"text": "alone"}]]}
  ]
}`

func TestDecodeCorpus(t *testing.T) {
	d, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, "en", d.Language)

	c := d.Corpus(rhymetagger.IPA, rhymetagger.NewNormalizer(language.English))
	require.NoError(t, c.Validate())
	require.Len(t, c.Poems, 2)

	p := c.Poems[0]
	assert.Equal(t, "q1", p.ID)
	assert.Equal(t, "1850", p.Period)
	assert.Equal(t, "Evening", p.Title)
	require.Len(t, p.Lines, 3, "line without a word is dropped")

	tests := []struct {
		token  string
		stanza int
		scheme rhymetagger.SchemeLabel
		ipa    string
	}{
		{"bright", 0, "A", "bɹˈaɪt"},
		{"bay", 0, "B", "bˈeɪ"},
		{"night", 1, "A", "nˈaɪt"},
	}
	for i, tt := range tests {
		l := p.Lines[i]
		if l.Token != tt.token || l.Stanza != tt.stanza || l.Scheme != tt.scheme || l.Index != i {
			t.Errorf("line %d = %+v, want token %q stanza %d scheme %q", i, l, tt.token, tt.stanza, tt.scheme)
		}
		if got := l.Transcription.String(); got != tt.ipa {
			t.Errorf("line %d transcription = %q, want %q", i, got, tt.ipa)
		}
	}

	assert.Equal(t, "poem-2", c.Poems[1].ID)
	assert.Empty(t, c.Poems[1].Lines[0].Transcription)
}

func TestAssignIDs(t *testing.T) {
	d, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)
	d.AssignIDs("corpora/english")

	c := d.Corpus(rhymetagger.IPA, rhymetagger.NewNormalizer(language.English))
	assert.Equal(t, "q1", c.Poems[0].ID, "explicit ids are kept")
	assert.Equal(t, "corpora/english-2", c.Poems[1].ID)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"poems": [], "verses": []}`))
	assert.Error(t, err)
}

func TestFromCorpusRoundTrip(t *testing.T) {
	d, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)
	n := rhymetagger.NewNormalizer(language.English)
	c := d.Corpus(rhymetagger.IPA, n)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FromCorpus("en", c)))
	d2, err := Decode(&buf)
	require.NoError(t, err)
	c2 := d2.Corpus(rhymetagger.IPA, n)

	assert.Equal(t, c, c2)
}

func TestWriteTagged(t *testing.T) {
	p := rhymetagger.Poem{ID: "q", Lines: []rhymetagger.Line{
		{Token: "light", Scheme: "A", Index: 0},
		{Token: "day", Scheme: "B", Index: 1},
		{Token: "night", Scheme: "A", Index: 2},
		{Token: "way", Scheme: "B", Index: 3},
	}}
	r := rhymetagger.PoemResult{PoemID: "q", Tagged: rhymetagger.RelationFromEdges([][2]int{{0, 2}, {1, 3}})}

	var buf bytes.Buffer
	require.NoError(t, WriteTagged(&buf, &rhymetagger.Corpus{Poems: []rhymetagger.Poem{p}}, []rhymetagger.PoemResult{r}))

	var got []TaggedPoem
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, [][]int{{0, 2}, {1, 3}}, got[0].Chains)
	schemes := []int{}
	for _, l := range got[0].Lines {
		schemes = append(schemes, l.Scheme)
	}
	assert.Equal(t, []int{1, 2, 1, 2}, schemes)
	assert.Equal(t, []int{2}, got[0].Lines[0].Partners)
	assert.Equal(t, "A", got[0].Lines[0].Gold)
}
