package store

import "github.com/versotym/rhymetagger"

// PoemMeta is the catalogue entry of a stored poem.
type PoemMeta struct {
	ID       string `json:"id"`
	Author   string `json:"author"`
	Period   string `json:"period"`
	Language string `json:"language"`
	Title    string `json:"title,omitempty"`
	Lines    int    `json:"lines"`
}

// ModelInfo describes a stored model without its probabilities.
type ModelInfo struct {
	ID         int64                `json:"id"`
	CreatedAt  int64                `json:"createdAt"`
	State      string               `json:"state"`
	Iterations int                  `json:"iterations"`
	Settings   rhymetagger.Settings `json:"settings"`
}

// probability kinds in the probabilities table; cluster rows use the
// ClusterKind name.
const ngramKind = "ngram"
