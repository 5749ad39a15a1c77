package interp

import (
	"github.com/hbollon/go-edlib"

	"github.com/standardbeagle/mbs/internal/arena"
)

// suggest offers a "did you mean" correction for an unresolved identifier
// by Levenshtein distance against every name currently reachable (scope
// chain plus registered globals). Anything further than distance 2 is not
// offered.
func (ip *Interp) suggest(name string) string {
	return closestWithin(name, ip.candidateNames(), 2)
}

func (ip *Interp) suggestMethod(k arena.Kind, name string) string {
	table := ip.Methods[k]
	names := make([]string, 0, len(table))
	for n := range table {
		names = append(names, n)
	}
	s := closestWithin(name, names, 2)
	if s == "" {
		return ""
	}
	return ", did you mean " + s + "?"
}

func (ip *Interp) candidateNames() []string {
	var names []string
	for _, f := range ip.scopes.frames() {
		for n := range f.vars {
			names = append(names, n)
		}
	}
	for n := range ip.Globals {
		names = append(names, n)
	}
	for n := range ip.Funcs {
		names = append(names, n)
	}
	return names
}

func closestWithin(target string, candidates []string, maxDistance int) string {
	best := ""
	bestScore := float32(-1)
	for _, c := range candidates {
		if c == target {
			continue
		}
		score, err := edlib.StringsSimilarity(target, c, edlib.Levenshtein)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	if best == "" {
		return ""
	}
	if editDistanceWithinBound(target, best, maxDistance) {
		return best
	}
	return ""
}

// editDistanceWithinBound is a small local bound check: edlib reports
// normalised similarity, not the raw edit distance, so for the ≤2 cutoff
// we run a plain Levenshtein distance ourselves rather than inverting the
// similarity score.
func editDistanceWithinBound(a, b string, max int) bool {
	la, lb := len(a), len(b)
	if abs(la-lb) > max {
		return false
	}
	prev := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur := make([]int, lb+1)
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev = cur
	}
	return prev[lb] <= max
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
