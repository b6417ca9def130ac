package rhymetagger

import (
	"encoding/json"
	"sort"
	"strconv"
)

// AllStratum aggregates every poem regardless of period.
const AllStratum = "*ALL*"

// Metric is a ratio that may be undefined because its denominator is zero.
// Undefined metrics are distinct from 0 and encode as JSON null.
type Metric struct {
	Value   float64
	Defined bool
}

// Undefined is the metric of an empty denominator.
var Undefined = Metric{}

func ratio(num, den float64) Metric {
	if den == 0 {
		return Undefined
	}
	return Metric{Value: num / den, Defined: true}
}

func fScore(p, r Metric) Metric {
	if !p.Defined || !r.Defined {
		return Undefined
	}
	return ratio(2*p.Value*r.Value, p.Value+r.Value)
}

func (m Metric) String() string {
	if !m.Defined {
		return "undefined"
	}
	return strconv.FormatFloat(m.Value, 'f', 4, 64)
}

// MarshalJSON encodes an undefined metric as null.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON accepts a number or null.
func (m *Metric) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = Undefined
		return nil
	}
	if err := json.Unmarshal(b, &m.Value); err != nil {
		return err
	}
	m.Defined = true
	return nil
}

// Counts accumulates link-level and line-level evaluation counts.
type Counts struct {
	Positives     int `json:"positives"`
	TruePositives int `json:"true_positives"`
	Relevant      int `json:"relevant"`

	// LinesAny counts lines with a gold or a tagged partner, LinesGold
	// lines with a gold partner. The sums hold per-line precision and
	// recall over gold lines that were tagged.
	LinesAny     int     `json:"lines_any"`
	LinesGold    int     `json:"lines_gold"`
	SumPrecision float64 `json:"sum_precision"`
	SumRecall    float64 `json:"sum_recall"`
}

// Precision is TP / positives.
func (c Counts) Precision() Metric {
	return ratio(float64(c.TruePositives), float64(c.Positives))
}

// Recall is TP / relevant.
func (c Counts) Recall() Metric {
	return ratio(float64(c.TruePositives), float64(c.Relevant))
}

// F1 is the harmonic mean of precision and recall.
func (c Counts) F1() Metric {
	return fScore(c.Precision(), c.Recall())
}

func (c *Counts) add(o Counts) {
	c.Positives += o.Positives
	c.TruePositives += o.TruePositives
	c.Relevant += o.Relevant
	c.LinesAny += o.LinesAny
	c.LinesGold += o.LinesGold
	c.SumPrecision += o.SumPrecision
	c.SumRecall += o.SumRecall
}

// Scores are the derived metrics of one stratum.
type Scores struct {
	Precision Metric `json:"precision"`
	Recall    Metric `json:"recall"`
	F1        Metric `json:"f1"`
}

// StratumReport is the evaluation of one stratum.
type StratumReport struct {
	Stratum string `json:"stratum"`
	Counts  Counts `json:"counts"`
	// Links are micro-averaged over rhyme links.
	Links Scores `json:"links"`
	// LinesAny averages per-line scores over lines with gold or tagged partners.
	LinesAny Scores `json:"lines_any"`
	// LinesGold averages per-line scores over lines with gold partners.
	LinesGold Scores `json:"lines_gold"`
}

// EvaluationStats holds counts per stratum plus AllStratum.
type EvaluationStats struct {
	strata map[string]*Counts
}

// NewEvaluationStats returns stats with an empty AllStratum bucket.
func NewEvaluationStats() *EvaluationStats {
	return &EvaluationStats{strata: map[string]*Counts{AllStratum: {}}}
}

// Evaluate compares every poem's tagged links with its gold links.
// results[i] must belong to c.Poems[i].
func Evaluate(c *Corpus, results []PoemResult) *EvaluationStats {
	s := NewEvaluationStats()
	for i, p := range c.Poems {
		if i >= len(results) {
			break
		}
		s.Add(p.Period, len(p.Lines), results[i])
	}
	return s
}

// Add counts one poem of numLines lines into its period and AllStratum.
func (s *EvaluationStats) Add(period string, numLines int, r PoemResult) {
	var c Counts
	for i := 0; i < numLines; i++ {
		tagged := r.Tagged.Partners(i)
		gold := len(r.Gold.Partners(i))
		correct := 0
		for _, j := range tagged {
			if r.Gold.Has(i, j) {
				correct++
			}
		}
		c.Positives += len(tagged)
		c.TruePositives += correct
		c.Relevant += gold

		if gold > 0 || len(tagged) > 0 {
			c.LinesAny++
		}
		if gold > 0 {
			c.LinesGold++
			if len(tagged) > 0 {
				c.SumPrecision += float64(correct) / float64(len(tagged))
				c.SumRecall += float64(correct) / float64(gold)
			}
		}
	}

	s.bucket(AllStratum).add(c)
	if period != "" && period != AllStratum {
		s.bucket(period).add(c)
	}
}

func (s *EvaluationStats) bucket(name string) *Counts {
	c, ok := s.strata[name]
	if !ok {
		c = &Counts{}
		s.strata[name] = c
	}
	return c
}

// Stratum returns the counts of one stratum.
func (s *EvaluationStats) Stratum(name string) (Counts, bool) {
	c, ok := s.strata[name]
	if !ok {
		return Counts{}, false
	}
	return *c, true
}

// Strata lists stratum names, AllStratum first.
func (s *EvaluationStats) Strata() []string {
	names := make([]string, 0, len(s.strata))
	for n := range s.strata {
		if n != AllStratum {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return append([]string{AllStratum}, names...)
}

// Report derives the metrics of every stratum.
func (s *EvaluationStats) Report() []StratumReport {
	var out []StratumReport
	for _, n := range s.Strata() {
		c := *s.strata[n]
		anyP := ratio(c.SumPrecision, float64(c.LinesAny))
		anyR := ratio(c.SumRecall, float64(c.LinesAny))
		goldP := ratio(c.SumPrecision, float64(c.LinesGold))
		goldR := ratio(c.SumRecall, float64(c.LinesGold))
		out = append(out, StratumReport{
			Stratum:   n,
			Counts:    c,
			Links:     Scores{c.Precision(), c.Recall(), c.F1()},
			LinesAny:  Scores{anyP, anyR, fScore(anyP, anyR)},
			LinesGold: Scores{goldP, goldR, fScore(goldP, goldR)},
		})
	}
	return out
}
