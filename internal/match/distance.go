package match

// Levenshtein returns the minimum number of single-byte insertions,
// deletions and substitutions turning a into b.
func Levenshtein(a, b string) int {
	if len(a) > len(b) {
		a, b = b, a
	}

	if a == "" {
		return len(b)
	}

	// Two rows of the edit matrix, sized by the shorter string.
	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j
		for i := 1; i <= len(a); i++ {
			sub := prev[i-1]
			if a[i-1] != b[j-1] {
				sub++
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, sub)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// Similarity scores a and b between 0 (nothing shared) and 1 (equal).
func Similarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Levenshtein(a, b))/float64(longest)
}
