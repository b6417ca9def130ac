// Package corpusio reads and writes the JSON corpus format and the JSON
// form of tagging results.
//
// A corpus document looks like:
//
//	{"language": "en",
//	 "poems": [{"id": "p1", "author": "...", "period": "1850",
//	            "stanzas": [[{"text": "...", "ipa": "...", "scheme": "A"}]]}]}
//
// The ipa field holds the transcription of the whole line; only its last
// word is used.
package corpusio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/versotym/rhymetagger"
)

// LineJSON is one verse line.
type LineJSON struct {
	Text   string `json:"text"`
	IPA    string `json:"ipa,omitempty"`
	Scheme string `json:"scheme,omitempty"`
}

// PoemJSON is one poem as a list of stanzas.
type PoemJSON struct {
	ID      string       `json:"id,omitempty"`
	Author  string       `json:"author,omitempty"`
	Period  string       `json:"period,omitempty"`
	Title   string       `json:"title,omitempty"`
	Stanzas [][]LineJSON `json:"stanzas"`
}

// Document is a corpus file.
type Document struct {
	Language string     `json:"language,omitempty"`
	Poems    []PoemJSON `json:"poems"`
}

// Decode reads a Document.
func Decode(r io.Reader) (*Document, error) {
	var d Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	return &d, nil
}

// ReadFile reads a Document from path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes d as indented JSON.
func Encode(w io.Writer, d *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(d)
}

// Corpus converts d into the engine's corpus. Rhyme words are extracted
// from the text with n and transcriptions parsed with a. Lines without
// any word are dropped, so Line.Index counts kept lines only. Poems
// without an id are numbered "poem-1", "poem-2", ... in file order.
func (d *Document) Corpus(a *rhymetagger.Alphabet, n *rhymetagger.Normalizer) *rhymetagger.Corpus {
	c := &rhymetagger.Corpus{Poems: make([]rhymetagger.Poem, 0, len(d.Poems))}
	for i, pj := range d.Poems {
		c.Poems = append(c.Poems, PoemFromJSON(pj, i, a, n))
	}
	return c
}

// AssignIDs gives every poem without an id the id "<prefix>-<n>", n
// counting poems in file order from 1. Importers pass a per-file prefix
// so that id-less poems of different files stay distinct.
func (d *Document) AssignIDs(prefix string) {
	for i := range d.Poems {
		if d.Poems[i].ID == "" {
			d.Poems[i].ID = fmt.Sprintf("%s-%d", prefix, i+1)
		}
	}
}

// PoemFromJSON converts a single poem; i numbers poems without an id.
func PoemFromJSON(pj PoemJSON, i int, a *rhymetagger.Alphabet, n *rhymetagger.Normalizer) rhymetagger.Poem {
	p := rhymetagger.Poem{
		ID:     pj.ID,
		Author: pj.Author,
		Period: pj.Period,
		Title:  pj.Title,
	}
	if p.ID == "" {
		p.ID = fmt.Sprintf("poem-%d", i+1)
	}
	for s, stanza := range pj.Stanzas {
		for _, lj := range stanza {
			token := n.RhymeWord(lj.Text)
			if token == "" {
				continue
			}
			p.Lines = append(p.Lines, rhymetagger.Line{
				Token:         token,
				Transcription: a.Parse(lastWord(lj.IPA)),
				Stanza:        s,
				Scheme:        rhymetagger.SchemeLabel(strings.TrimSpace(lj.Scheme)),
				Index:         len(p.Lines),
			})
		}
	}
	return p
}

func lastWord(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return ""
	}
	return f[len(f)-1]
}

// FromCorpus renders c back into a Document. Text holds the rhyme word
// and ipa its transcription.
func FromCorpus(language string, c *rhymetagger.Corpus) *Document {
	d := &Document{Language: language}
	for _, p := range c.Poems {
		pj := PoemJSON{ID: p.ID, Author: p.Author, Period: p.Period, Title: p.Title}
		for i, l := range p.Lines {
			if i == 0 || l.Stanza != p.Lines[i-1].Stanza {
				pj.Stanzas = append(pj.Stanzas, nil)
			}
			last := len(pj.Stanzas) - 1
			pj.Stanzas[last] = append(pj.Stanzas[last], LineJSON{
				Text:   l.Token,
				IPA:    l.Transcription.String(),
				Scheme: string(l.Scheme),
			})
		}
		d.Poems = append(d.Poems, pj)
	}
	return d
}
