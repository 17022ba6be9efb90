package utils

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// ArgBest returns the index among n candidates that is best according to better, choosing uniformly
// at random among equally good candidates. Candidates are visited in a shuffled order and the
// first strictly better one wins, so no position is favored on ties. It returns -1 when n is 0.
func ArgBest(n int, better func(i, j int) bool, rng Rand) int {
	if n == 0 {
		return -1
	}
	order := Shuffled(n, rng)
	best := order[0]
	for _, i := range order[1:] {
		if better(i, best) {
			best = i
		}
	}
	return best
}

// Shuffled returns a random permutation of [0, n).
func Shuffled(n int, rng Rand) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rng.Shuffle(n, func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}
