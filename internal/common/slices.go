package common

// Single returns the only element of s. It reports false when s is empty or
// holds more than one element.
func Single[S ~[]E, E any](s S) (E, bool) {
	if len(s) != 1 {
		var zero E
		return zero, false
	}

	return s[0], true
}

// UniqueBy keeps the first element for every distinct key, preserving order.
func UniqueBy[S ~[]E, E any, K comparable](s S, key func(E) K) S {
	if len(s) < 2 {
		return s
	}

	seen := make(map[K]struct{}, len(s))
	out := make(S, 0, len(s))

	for _, e := range s {
		k := key(e)
		if _, dup := seen[k]; dup {
			continue
		}

		seen[k] = struct{}{}
		out = append(out, e)
	}

	return out
}

// MinBy returns the first element with the smallest score.
// Later elements with an equal score never replace an earlier one.
func MinBy[S ~[]E, E any](s S, score func(E) int) (E, bool) {
	var (
		best   E
		found  bool
		lowest int
	)

	for _, e := range s {
		v := score(e)
		if !found || v < lowest {
			best, lowest, found = e, v, true
		}
	}

	return best, found
}
