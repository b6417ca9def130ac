package rhymetagger

import "sort"

// PartnerLists returns, for each of n lines, the indices it rhymes with.
// Lines without partners get an empty list.
func PartnerLists(r Relation, n int) [][]int {
	out := make([][]int, n)
	for i := range out {
		out[i] = r.Partners(i)
	}
	return out
}

// RhymeChains groups lines into chains: each line together with its
// partners, sorted, deduplicated and ordered by first line.
func RhymeChains(r Relation) [][]int {
	lines := make([]int, 0, len(r.adj))
	for i, m := range r.adj {
		if len(m) > 0 {
			lines = append(lines, i)
		}
	}
	sort.Ints(lines)

	seen := make(map[string]struct{})
	var chains [][]int
	for _, i := range lines {
		chain := append([]int{i}, r.Partners(i)...)
		sort.Ints(chain)
		key := chainKey(chain)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		chains = append(chains, chain)
	}
	sort.SliceStable(chains, func(a, b int) bool {
		x, y := chains[a], chains[b]
		for k := 0; k < len(x) && k < len(y); k++ {
			if x[k] != y[k] {
				return x[k] < y[k]
			}
		}
		return len(x) < len(y)
	})
	return chains
}

func chainKey(chain []int) string {
	b := make([]byte, 0, len(chain)*4)
	for _, v := range chain {
		b = append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
	return string(b)
}

// SchemeIndices labels each of n lines with the 1-based number of the
// first chain containing it, or 0 when the line rhymes with nothing.
// A closed ABAB quatrain yields [1 2 1 2].
func SchemeIndices(r Relation, n int) []int {
	out := make([]int, n)
	for c, chain := range RhymeChains(r) {
		for _, i := range chain {
			if i >= 0 && i < n && out[i] == 0 {
				out[i] = c + 1
			}
		}
	}
	return out
}
