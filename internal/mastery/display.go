package mastery

// Band buckets a mastery level for display and profile summaries.
type Band string

const (
	BandStrength   Band = "strength"
	BandDeveloping Band = "developing"
	BandWeakness   Band = "weakness"
)

const (
	// StrengthThreshold is the mastery level at or above which a skill is
	// a strength.
	StrengthThreshold = 0.85

	// WeaknessThreshold is the mastery level below which a skill is a
	// weakness.
	WeaknessThreshold = 0.6
)

// ResolveBand maps a mastery level to its display band.
func ResolveBand(level float64) Band {
	switch {
	case level >= StrengthThreshold:
		return BandStrength
	case level < WeaknessThreshold:
		return BandWeakness
	default:
		return BandDeveloping
	}
}
