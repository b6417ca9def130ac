package corpusio

import (
	"encoding/json"
	"io"

	"github.com/versotym/rhymetagger"
)

// TaggedLine is one line of a tagged poem.
type TaggedLine struct {
	Token string `json:"token"`
	// Partners are the indices of the lines this line rhymes with.
	Partners []int `json:"partners"`
	// Scheme is the 1-based rhyme chain number, 0 when unrhymed.
	Scheme int    `json:"scheme"`
	Gold   string `json:"gold,omitempty"`
}

// TaggedPoem is the JSON form of a tagging result.
type TaggedPoem struct {
	ID     string       `json:"id"`
	Lines  []TaggedLine `json:"lines"`
	Chains [][]int      `json:"chains"`
}

// Tagged renders the result r of poem p.
func Tagged(p rhymetagger.Poem, r rhymetagger.PoemResult) TaggedPoem {
	n := len(p.Lines)
	partners := rhymetagger.PartnerLists(r.Tagged, n)
	scheme := rhymetagger.SchemeIndices(r.Tagged, n)
	chains := rhymetagger.RhymeChains(r.Tagged)
	if chains == nil {
		chains = [][]int{}
	}

	tp := TaggedPoem{ID: p.ID, Lines: make([]TaggedLine, n), Chains: chains}
	for i, l := range p.Lines {
		tp.Lines[i] = TaggedLine{
			Token:    l.Token,
			Partners: partners[i],
			Scheme:   scheme[i],
			Gold:     string(l.Scheme),
		}
	}
	return tp
}

// WriteTagged writes one TaggedPoem per poem as a JSON array.
// results[i] must belong to c.Poems[i].
func WriteTagged(w io.Writer, c *rhymetagger.Corpus, results []rhymetagger.PoemResult) error {
	out := make([]TaggedPoem, 0, len(results))
	for i, r := range results {
		if i >= len(c.Poems) {
			break
		}
		out = append(out, Tagged(c.Poems[i], r))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
