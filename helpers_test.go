package rhymetagger

// word is a line-final token with its IPA transcription.
type word struct {
	token, ipa string
}

var (
	light = word{"light", "lˈaɪt"}
	night = word{"night", "nˈaɪt"}
	day   = word{"day", "dˈeɪ"}
	way   = word{"way", "wˈeɪ"}
	sea   = word{"sea", "sˈiː"}
	me    = word{"me", "mˈiː"}
	stone = word{"stone", "stˈəʊn"}
	alone = word{"alone", "əlˈəʊn"}
)

// newPoem builds a one-stanza poem; schemes may be shorter than words.
func newPoem(id string, words []word, schemes ...string) Poem {
	p := Poem{ID: id}
	for i, w := range words {
		l := Line{Token: w.token, Transcription: IPA.Parse(w.ipa), Index: i}
		if i < len(schemes) {
			l.Scheme = SchemeLabel(schemes[i])
		}
		p.Lines = append(p.Lines, l)
	}
	return p
}

// quatrainCorpus returns ABAB quatrains over every combination of four
// rhyme pairs, repeated so that rhyming pairs co-occur six times and
// crossing pairs twice.
func quatrainCorpus() *Corpus {
	pairs := [][2]word{{light, night}, {day, way}, {sea, me}, {stone, alone}}
	c := &Corpus{}
	for rep := 0; rep < 2; rep++ {
		for i := range pairs {
			for j := i + 1; j < len(pairs); j++ {
				a, b := pairs[i], pairs[j]
				p := newPoem("", []word{a[0], b[0], a[1], b[1]}, "A", "B", "A", "B")
				p.ID = string(rune('a'+len(c.Poems))) + "-quatrain"
				if rep == 0 {
					p.Period = "early"
				} else {
					p.Period = "late"
				}
				c.Poems = append(c.Poems, p)
			}
		}
	}
	return c
}

// quatrainSettings are thresholds under which quatrainCorpus seeds
// exactly its four rhyme pairs.
func quatrainSettings() Settings {
	s := DefaultSettings()
	s.MinScore = 1.0
	s.MinFrequency = 4
	s.MinProbability = 0.8
	s.MaxIterations = 10
	return s
}
