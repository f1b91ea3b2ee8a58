package analyze

// Score returns the cruftiness ratio |subset| / |population| in [0,1].
//
// Zero-safe: an empty population scores 0.0 rather than dividing by zero,
// so an empty catalog reads as "no cruft" instead of poisoning report
// arithmetic. Negative inputs are treated as empty.
func Score(subset, population int) float64 {
	if population <= 0 || subset <= 0 {
		return 0.0
	}
	if subset > population {
		subset = population
	}
	return float64(subset) / float64(population)
}
