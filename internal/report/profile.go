package report

import (
	"sort"
	"time"

	"github.com/abhisek/mathprobe/internal/irt"
	"github.com/abhisek/mathprobe/internal/mastery"
	"github.com/abhisek/mathprobe/internal/skillgraph"
)

// MaxHistoryDays bounds the learning history kept on a profile.
const MaxHistoryDays = 30

// HistoryEntry records one day of practice. Date is YYYY-MM-DD in the
// profile owner's local time.
type HistoryEntry struct {
	Date          string  `json:"date"`
	Theta         float64 `json:"theta"`
	Accuracy      float64 `json:"accuracy"`
	ResponseCount int     `json:"response_count"`
}

// StudentProfile is the longitudinal view of a learner.
type StudentProfile struct {
	LearnerID        string                          `json:"learner_id"`
	Ability          irt.AbilityEstimate             `json:"ability"`
	SkillMastery     map[string]mastery.SkillMastery `json:"skill_mastery"`
	LearningHistory  []HistoryEntry                  `json:"learning_history"`
	Strengths        []string                        `json:"strengths"`
	Weaknesses       []string                        `json:"weaknesses"`
	RecommendedFocus string                          `json:"recommended_focus"`
	UpdatedAt        time.Time                       `json:"updated_at"`
}

// BuildStudentProfile recomputes a profile from in and folds today's
// practice into prev's history. A day with no responses leaves the
// history unchanged; a day that already has an entry is overwritten.
func BuildStudentProfile(in Input, prev *StudentProfile, now time.Time) StudentProfile {
	ability := irt.EstimateEAP(in.LearnerID, in.Responses, in.Bank)
	masteries := mastery.AnalyzeSkillMastery(in.Responses, in.Bank)
	recs := GenerateRecommendations(masteries)

	var history []HistoryEntry
	if prev != nil {
		history = append(history, prev.LearningHistory...)
	}
	if entry, ok := todayEntry(in.Responses, ability.Theta, now); ok {
		history = upsertHistory(history, entry)
	}

	profile := StudentProfile{
		LearnerID:       in.LearnerID,
		Ability:         ability,
		SkillMastery:    masteries,
		LearningHistory: history,
		Strengths:       []string{},
		Weaknesses:      []string{},
		UpdatedAt:       now,
	}

	sorted := mastery.Sorted(masteries)
	for i := len(sorted) - 1; i >= 0; i-- {
		if mastery.ResolveBand(sorted[i].MasteryLevel) == mastery.BandStrength {
			profile.Strengths = append(profile.Strengths, skillgraph.DisplayName(sorted[i].SkillTag))
		}
	}
	for _, m := range sorted {
		if mastery.ResolveBand(m.MasteryLevel) == mastery.BandWeakness {
			profile.Weaknesses = append(profile.Weaknesses, skillgraph.DisplayName(m.SkillTag))
		}
	}
	if len(recs) > 0 {
		profile.RecommendedFocus = recs[0].SkillName
	}
	return profile
}

func todayEntry(responses []irt.Response, theta float64, now time.Time) (HistoryEntry, bool) {
	today := now.Format(time.DateOnly)
	var total, correct int
	for _, r := range responses {
		if r.Timestamp.In(now.Location()).Format(time.DateOnly) != today {
			continue
		}
		total++
		if r.IsCorrect {
			correct++
		}
	}
	if total == 0 {
		return HistoryEntry{}, false
	}
	return HistoryEntry{
		Date:          today,
		Theta:         theta,
		Accuracy:      float64(correct) / float64(total),
		ResponseCount: total,
	}, true
}

// upsertHistory replaces or adds entry, orders by date and keeps the
// newest MaxHistoryDays entries.
func upsertHistory(history []HistoryEntry, entry HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(history)+1)
	for _, h := range history {
		if h.Date != entry.Date {
			out = append(out, h)
		}
	}
	out = append(out, entry)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	if len(out) > MaxHistoryDays {
		out = out[len(out)-MaxHistoryDays:]
	}
	return out
}
