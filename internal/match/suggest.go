package match

import (
	"cmp"
	"slices"
	"strings"
)

// MinScore is the similarity a name needs to be suggested.
const MinScore = 0.5

// Normalize reduces a type name to the part worth comparing:
// "example.com/cms.Page[T]" and "page" both become "page".
func Normalize(name string) string {
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}

	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}

	name = strings.TrimLeft(name, "*")

	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ':
			return -1
		default:
			return r
		}
	}, strings.ToLower(name))
}

// Candidate is a name with its similarity to the query.
type Candidate struct {
	Name  string
	Score float64
}

// Rank scores names against query and returns those reaching MinScore,
// best first. Ties keep the order of names. Duplicate names are ranked once.
func Rank(query string, names []string) []Candidate {
	q := Normalize(query)

	var out []Candidate
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		if score := Similarity(q, Normalize(name)); score >= MinScore {
			out = append(out, Candidate{Name: name, Score: score})
		}
	}

	slices.SortStableFunc(out, func(a, b Candidate) int { return cmp.Compare(b.Score, a.Score) })

	return out
}

// Suggest returns up to limit names closest to query.
func Suggest(query string, names []string, limit int) []string {
	ranked := Rank(query, names)
	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, len(ranked))
	for i, c := range ranked {
		out[i] = c.Name
	}

	return out
}
