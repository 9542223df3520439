package population

import "math/rand/v2"

// SpawnChance is a parabola over the normalized day x in [0, 1], peaking at 0.4 at noon.
// It is negative near both ends of the day.
func SpawnChance(x float64) float64 {
	return 0.4 - (2*x-1)*(2*x-1)
}

// DespawnChance rises over the normalized day x in [0, 1] to 0.6 at the end of the day.
func DespawnChance(x float64) float64 {
	return 0.6 - (x-1)*(x-1)
}

// Decide draws once and compares against chance. A chance at or below zero never fires.
func Decide(rng *rand.Rand, chance float64) bool {
	return rng.Float64() < chance
}
