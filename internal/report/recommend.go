// Package report merges ability, mastery and error analysis into
// recommendations, diagnostic reports and learner profiles.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/abhisek/mathprobe/internal/mastery"
	"github.com/abhisek/mathprobe/internal/skillgraph"
)

// Priority orders recommendations.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

const (
	// TargetLevel is the mastery a recommendation aims for.
	TargetLevel = 0.85

	// RecommendBelow is the mastery under which a skill gets a
	// recommendation.
	RecommendBelow = 0.8

	// PrerequisiteReady is the mastery a prerequisite needs before its
	// dependents are worth practising.
	PrerequisiteReady = 0.6

	// UrgentBelow is the mastery under which a recommendation is high
	// priority.
	UrgentBelow = 0.5

	// MinProblemsToMaster is the floor on the practice estimate.
	MinProblemsToMaster = 5

	problemsPerMasteryUnit = 40
)

// Recommendation suggests practice for one skill.
type Recommendation struct {
	SkillTag                  string   `json:"skill_tag"`
	SkillName                 string   `json:"skill_name"`
	Priority                  Priority `json:"priority"`
	CurrentLevel              float64  `json:"current_level"`
	TargetLevel               float64  `json:"target_level"`
	SuggestedPractice         string   `json:"suggested_practice"`
	EstimatedProblemsToMaster int      `json:"estimated_problems_to_master"`
}

// GenerateRecommendations returns a recommendation for every skill below
// RecommendBelow. Skills whose prerequisites are not ready are low
// priority regardless of their own level, and their practice suggestion
// names those prerequisites.
func GenerateRecommendations(masteries map[string]mastery.SkillMastery) []Recommendation {
	ready := func(prereq string) bool {
		m, ok := masteries[prereq]
		return ok && m.MasteryLevel >= PrerequisiteReady
	}

	var recs []Recommendation
	for tag, m := range masteries {
		if m.MasteryLevel >= RecommendBelow {
			continue
		}

		var unmet []string
		for _, p := range skillgraph.Prerequisites(tag) {
			if !ready(p.ID) {
				unmet = append(unmet, p.Name)
			}
		}

		priority := PriorityMedium
		switch {
		case len(unmet) > 0:
			priority = PriorityLow
		case m.Trend == mastery.TrendDeclining || m.MasteryLevel < UrgentBelow:
			priority = PriorityHigh
		}

		recs = append(recs, Recommendation{
			SkillTag:                  tag,
			SkillName:                 skillgraph.DisplayName(tag),
			Priority:                  priority,
			CurrentLevel:              m.MasteryLevel,
			TargetLevel:               TargetLevel,
			SuggestedPractice:         suggestedPractice(tag, unmet),
			EstimatedProblemsToMaster: problemsToMaster(m.MasteryLevel),
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		if ri, rj := recs[i].Priority.rank(), recs[j].Priority.rank(); ri != rj {
			return ri < rj
		}
		if recs[i].CurrentLevel != recs[j].CurrentLevel {
			return recs[i].CurrentLevel < recs[j].CurrentLevel
		}
		return recs[i].SkillTag < recs[j].SkillTag
	})
	return recs
}

func problemsToMaster(level float64) int {
	// Epsilon keeps exact products like 26.000000000000004 from rounding up.
	return max(MinProblemsToMaster, int(math.Ceil((TargetLevel-level)*problemsPerMasteryUnit-1e-9)))
}

func suggestedPractice(tag string, unmet []string) string {
	practice := fmt.Sprintf("Short daily sets of %s problems, checking each answer before moving on.", tag)
	if s, ok := skillgraph.Lookup(tag); ok && s.Practice != "" {
		practice = s.Practice
	}
	if len(unmet) > 0 {
		return "First secure " + strings.Join(unmet, " and ") + ". " + practice
	}
	return practice
}
