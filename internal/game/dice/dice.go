// Package dice provides the randomness abstraction used by the battle engine:
// percentage rolls for hit chance, critical hits and resistance, and coin flips
// for turn-order ties.
package dice

// Source is the randomness provider for all rolls.
//
// Implementations used from more than one goroutine MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Percent rolls a uniform integer in [0, 100) and reports whether it is below chance.
//
// Postcondition: always false when chance <= 0; always true when chance > 99.
func Percent(src Source, chance float64) bool {
	if chance <= 0 {
		return false
	}
	return float64(src.Intn(100)) < chance
}

// CoinFlip returns 0 or 1 with equal probability.
func CoinFlip(src Source) int {
	return src.Intn(2)
}
