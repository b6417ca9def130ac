package rhymetagger

import "sort"

// Relation is a symmetric adjacency over line indices of one poem.
type Relation struct {
	adj map[int]map[int]struct{}
}

// NewRelation returns an empty relation.
func NewRelation() Relation {
	return Relation{adj: make(map[int]map[int]struct{})}
}

// RelationFromEdges builds a relation from index pairs.
func RelationFromEdges(edges [][2]int) Relation {
	r := NewRelation()
	for _, e := range edges {
		r.Add(e[0], e[1])
	}
	return r
}

// Add links a and b in both directions and reports whether the link is new.
// Self links are ignored.
func (r Relation) Add(a, b int) bool {
	if a == b || r.Has(a, b) {
		return false
	}
	r.link(a, b)
	r.link(b, a)
	return true
}

func (r Relation) link(a, b int) {
	m, ok := r.adj[a]
	if !ok {
		m = make(map[int]struct{})
		r.adj[a] = m
	}
	m[b] = struct{}{}
}

// Has reports whether a and b are linked.
func (r Relation) Has(a, b int) bool {
	_, ok := r.adj[a][b]
	return ok
}

// HasAny reports whether line i is linked to anything.
func (r Relation) HasAny(i int) bool {
	return len(r.adj[i]) > 0
}

// Partners returns the lines linked to i in ascending order.
func (r Relation) Partners(i int) []int {
	out := make([]int, 0, len(r.adj[i]))
	for j := range r.adj[i] {
		out = append(out, j)
	}
	sort.Ints(out)
	return out
}

// Edges lists every link once as {low, high}, sorted.
func (r Relation) Edges() [][2]int {
	var out [][2]int
	for a, m := range r.adj {
		for b := range m {
			if a < b {
				out = append(out, [2]int{a, b})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// Len is the number of links.
func (r Relation) Len() int {
	n := 0
	for _, m := range r.adj {
		n += len(m)
	}
	return n / 2
}

// Equal reports whether both relations hold the same links.
func (r Relation) Equal(o Relation) bool {
	if r.Len() != o.Len() {
		return false
	}
	for a, m := range r.adj {
		for b := range m {
			if !o.Has(a, b) {
				return false
			}
		}
	}
	return true
}
