package mastery

import (
	"math"
	"sort"

	"github.com/abhisek/mathprobe/internal/irt"
)

const (
	// RecentFraction is the share of the newest responses compared against
	// the whole log when computing a trend.
	RecentFraction = 0.3

	// FullConfidenceResponses is how many responses a skill needs before
	// its accuracy counts in full.
	FullConfidenceResponses = 10

	// TrendThreshold is how far recent accuracy must move from overall
	// accuracy to count as a trend.
	TrendThreshold = 0.1

	// MinTrendResponses is the fewest recent responses a trend is based on.
	MinTrendResponses = 3
)

type tally struct {
	total, correct             int
	recentTotal, recentCorrect int
	timeMs                     int64
}

// AnalyzeSkillMastery computes mastery for every skill tag that appears on
// an answered item. Responses to items missing from bank are ignored. The
// recent window is the newest 30% of the whole log (at least one
// response).
func AnalyzeSkillMastery(responses []irt.Response, bank irt.ItemBank) map[string]SkillMastery {
	known := make([]irt.Response, 0, len(responses))
	for _, r := range responses {
		if _, ok := bank[r.ItemID]; ok {
			known = append(known, r)
		}
	}
	sort.SliceStable(known, func(i, j int) bool {
		return known[i].Timestamp.Before(known[j].Timestamp)
	})

	n := len(known)
	recentStart := n - max(1, int(math.Ceil(RecentFraction*float64(n))))

	tallies := make(map[string]*tally)
	for i, r := range known {
		for _, tag := range uniqueTags(bank[r.ItemID].SkillTags) {
			t, ok := tallies[tag]
			if !ok {
				t = &tally{}
				tallies[tag] = t
			}
			t.total++
			t.timeMs += r.ResponseTimeMs
			if r.IsCorrect {
				t.correct++
			}
			if i >= recentStart {
				t.recentTotal++
				if r.IsCorrect {
					t.recentCorrect++
				}
			}
		}
	}

	result := make(map[string]SkillMastery, len(tallies))
	for tag, t := range tallies {
		result[tag] = t.mastery(tag)
	}
	return result
}

func (t *tally) mastery(tag string) SkillMastery {
	accuracy := float64(t.correct) / float64(t.total)
	confidence := math.Min(1, float64(t.total)/FullConfidenceResponses)

	recent := accuracy
	if t.recentTotal > 0 {
		recent = float64(t.recentCorrect) / float64(t.recentTotal)
	}

	trend := TrendStable
	if t.recentTotal >= MinTrendResponses {
		switch diff := recent - accuracy; {
		case diff > TrendThreshold:
			trend = TrendImproving
		case diff < -TrendThreshold:
			trend = TrendDeclining
		}
	}

	return SkillMastery{
		SkillTag:          tag,
		MasteryLevel:      accuracy * confidence,
		Confidence:        confidence,
		ResponseCount:     t.total,
		CorrectCount:      t.correct,
		RecentAccuracy:    recent,
		Trend:             trend,
		AvgResponseTimeMs: float64(t.timeMs) / float64(t.total),
	}
}

func uniqueTags(tags []string) []string {
	if len(tags) < 2 {
		return tags
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// Sorted returns masteries ordered by mastery level ascending, ties broken
// by skill tag.
func Sorted(masteries map[string]SkillMastery) []SkillMastery {
	out := make([]SkillMastery, 0, len(masteries))
	for _, m := range masteries {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MasteryLevel != out[j].MasteryLevel {
			return out[i].MasteryLevel < out[j].MasteryLevel
		}
		return out[i].SkillTag < out[j].SkillTag
	})
	return out
}
