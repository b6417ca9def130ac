package rhymetagger

// Fallback probabilities for cluster or n-gram value pairs the model has
// never seen.
const (
	SameValuePrior      = 0.9
	DifferentValuePrior = 0.0001
)

// Tagger tags rhymes within single poems using a ProbabilityModel.
type Tagger struct {
	Model      *ProbabilityModel
	Decomposer Decomposer
	// Window is how many lines back a line looks for rhyme partners.
	Window int
	// StanzaLimit keeps rhymes within one stanza.
	StanzaLimit bool
	// Orthography enables the n-gram fallback pass.
	Orthography    bool
	MinProbability float64
	MinNgramProb   float64
	NgramLen       int
}

// PoemResult is the outcome of tagging one poem.
type PoemResult struct {
	PoemID string
	// Tagged holds detected rhymes.
	Tagged Relation
	// Gold holds rhymes implied by the scheme labels within the same
	// window and stanza constraints.
	Gold Relation
	// Candidates are the token pairs of every tagged link, sorted.
	Candidates []TokenPair
}

// TagPoem runs both tagging passes over p.
//
// Pass A visits pairs (i, j) with j < i in ascending i then ascending j.
// A pair scoring at least MinProbability is linked, and i is also linked
// to every line already linked to j, so groups close as they grow.
//
// Pass B, when Orthography is on, links pairs whose final n-grams score at
// least MinNgramProb provided neither line got a link in pass A. It does
// not propagate.
func (t *Tagger) TagPoem(p Poem) PoemResult {
	lines := p.Lines
	profiles := make([]ClusterProfile, len(lines))
	for i, l := range lines {
		profiles[i] = t.Decomposer.Decompose(l.Transcription)
	}

	res := PoemResult{
		PoemID: p.ID,
		Tagged: NewRelation(),
		Gold:   NewRelation(),
	}
	seen := make(map[TokenPair]struct{})
	tag := func(a, b int) {
		if lines[a].Token == lines[b].Token {
			return
		}
		if !res.Tagged.Add(a, b) {
			return
		}
		tp := NewTokenPair(lines[a].Token, lines[b].Token)
		if _, ok := seen[tp]; !ok {
			seen[tp] = struct{}{}
			res.Candidates = append(res.Candidates, tp)
		}
	}

	for i := range lines {
		for j := t.firstPartner(i); j < i; j++ {
			if !t.inScope(lines[i], lines[j]) {
				continue
			}
			if lines[i].Scheme.Rhymes() && lines[i].Scheme == lines[j].Scheme {
				res.Gold.Add(i, j)
			}
			if lines[i].Token == lines[j].Token {
				continue
			}
			if t.ClusterScore(profiles[i], profiles[j]) < t.MinProbability {
				continue
			}
			tag(i, j)
			for _, k := range res.Tagged.Partners(j) {
				if k != i {
					tag(i, k)
				}
			}
		}
	}

	if t.Orthography {
		inPassA := make([]bool, len(lines))
		for i := range lines {
			inPassA[i] = res.Tagged.HasAny(i)
		}
		for i := range lines {
			if inPassA[i] {
				continue
			}
			for j := t.firstPartner(i); j < i; j++ {
				if inPassA[j] || !t.inScope(lines[i], lines[j]) {
					continue
				}
				if lines[i].Token == lines[j].Token {
					continue
				}
				if t.NgramScore(lines[i].Token, lines[j].Token) < t.MinNgramProb {
					continue
				}
				tag(i, j)
			}
		}
	}

	sortPairs(res.Candidates)
	return res
}

func (t *Tagger) firstPartner(i int) int {
	if i-t.Window < 0 {
		return 0
	}
	return i - t.Window
}

func (t *Tagger) inScope(a, b Line) bool {
	return !t.StanzaLimit || a.Stanza == b.Stanza
}

// ClusterScore combines per-slot probabilities over the slots present in
// both profiles, assuming independence:
//
//	score = Πp / (Πp + Π(1-p))
//
// Unseen value pairs use SameValuePrior or DifferentValuePrior.
func (t *Tagger) ClusterScore(a, b ClusterProfile) float64 {
	pProd, qProd := 1.0, 1.0
	for _, f := range a.Features() {
		vb, ok := b.Lookup(f)
		if !ok {
			continue
		}
		va, _ := a.Lookup(f)
		p, ok := t.Model.Cluster(f, va, vb)
		if !ok {
			p = prior(va == vb)
		}
		pProd *= p
		qProd *= 1 - p
	}
	if pProd+qProd > 0 {
		return pProd / (pProd + qProd)
	}
	return 0
}

// NgramScore is P(rhyme) from the final n-grams of two tokens.
func (t *Tagger) NgramScore(x, y string) float64 {
	gx, gy := FinalNgram(x, t.NgramLen), FinalNgram(y, t.NgramLen)
	if p, ok := t.Model.Ngram(gx, gy); ok {
		return p
	}
	return prior(gx == gy)
}

func prior(same bool) float64 {
	if same {
		return SameValuePrior
	}
	return DifferentValuePrior
}
