// Package dice provides the randomness abstraction used by the combat resolver
// and loot generation.
package dice

// Source is the randomness provider for every random draw in the engine.
//
// Implementations used by a live game MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0, 1).
	Float64() float64
}

// Between returns a uniformly distributed int in [lo, hi] inclusive.
//
// Precondition: src must be non-nil.
// Postcondition: Returns lo when hi <= lo; otherwise lo <= result <= hi.
func Between(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// Chance reports whether a single [0, 1) draw falls below p.
//
// Postcondition: Always false when p <= 0; always true when p >= 1.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}
