package report

import (
	"math"
	"sort"

	"github.com/abhisek/mathprobe/internal/diagnosis"
	"github.com/abhisek/mathprobe/internal/irt"
	"github.com/abhisek/mathprobe/internal/mastery"
)

// DefaultNextItems is how many items a report suggests when the caller
// does not ask for a number.
const DefaultNextItems = 5

const (
	weakSkillBoost   = 1.5
	successBandBoost = 1.2
	offBandPenalty   = 0.8
	successBandLow   = 0.5
	successBandHigh  = 0.85
)

// Input is everything a report is computed from.
type Input struct {
	LearnerID string
	Responses []irt.Response
	Bank      irt.ItemBank
	Attempts  []diagnosis.Attempt

	// Candidates restricts next-item selection. Nil means every bank item.
	Candidates []irt.ItemParameters
	// Exclude lists items never to suggest in addition to the items the
	// learner already answered.
	Exclude map[string]bool
	// NextItemCount defaults to DefaultNextItems.
	NextItemCount int
}

// DiagnosticResult is a learner's full diagnostic report.
type DiagnosticResult struct {
	LearnerID        string                   `json:"learner_id"`
	Ability          irt.AbilityEstimate      `json:"ability"`
	Percentile       float64                  `json:"percentile"`
	SkillProfile     []mastery.SkillMastery   `json:"skill_profile"`
	ErrorPatterns    []diagnosis.ErrorPattern `json:"error_patterns"`
	Recommendations  []Recommendation         `json:"recommendations"`
	NextOptimalItems []irt.ItemParameters     `json:"next_optimal_items"`
}

// GenerateDiagnosticReport analyses in. The ability is the EAP estimate so
// that short or one-sided response logs still produce a finite result.
func GenerateDiagnosticReport(in Input) DiagnosticResult {
	ability := irt.EstimateEAP(in.LearnerID, in.Responses, in.Bank)
	masteries := mastery.AnalyzeSkillMastery(in.Responses, in.Bank)

	used := make(map[string]bool, len(in.Responses)+len(in.Exclude))
	for _, r := range in.Responses {
		used[r.ItemID] = true
	}
	for id, skip := range in.Exclude {
		if skip {
			used[id] = true
		}
	}
	count := in.NextItemCount
	if count <= 0 {
		count = DefaultNextItems
	}
	candidates := in.Candidates
	if candidates == nil {
		candidates = bankItems(in.Bank)
	}

	return DiagnosticResult{
		LearnerID:        in.LearnerID,
		Ability:          ability,
		Percentile:       irt.ThetaToPercentile(ability.Theta),
		SkillProfile:     mastery.Sorted(masteries),
		ErrorPatterns:    diagnosis.AnalyzeErrorPatterns(in.Attempts),
		Recommendations:  GenerateRecommendations(masteries),
		NextOptimalItems: rankNextItems(ability.Theta, candidates, used, masteries, count),
	}
}

func bankItems(bank irt.ItemBank) []irt.ItemParameters {
	items := make([]irt.ItemParameters, 0, len(bank))
	for _, it := range bank {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ItemID < items[j].ItemID })
	return items
}

type scoredItem struct {
	item  irt.ItemParameters
	score float64
}

// scoreItem rates how useful item is for a learner at theta: close in
// difficulty, covering a weak skill, likely but not certain to be solved,
// and discriminating.
func scoreItem(theta float64, item irt.ItemParameters, masteries map[string]mastery.SkillMastery) float64 {
	d := item.Difficulty - theta
	score := math.Exp(-d * d / 2)

	for _, tag := range item.SkillTags {
		if masteries[tag].MasteryLevel < RecommendBelow {
			score *= weakSkillBoost
			break
		}
	}

	if p := irt.Probability(theta, item); p >= successBandLow && p <= successBandHigh {
		score *= successBandBoost
	} else {
		score *= offBandPenalty
	}

	return score * item.Discrimination
}

// rankNextItems picks up to n unused items. The first half (rounded up)
// are chosen so each adds a skill not yet covered; the rest are the
// highest-scoring remaining items.
func rankNextItems(theta float64, candidates []irt.ItemParameters, used map[string]bool, masteries map[string]mastery.SkillMastery, n int) []irt.ItemParameters {
	var scored []scoredItem
	for _, it := range candidates {
		if used[it.ItemID] {
			continue
		}
		scored = append(scored, scoredItem{item: it, score: scoreItem(theta, it, masteries)})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	picked := make([]irt.ItemParameters, 0, n)
	taken := make(map[int]bool, n)
	covered := make(map[string]bool)

	diverse := (n + 1) / 2
	for i, s := range scored {
		if len(picked) == diverse {
			break
		}
		addsSkill := false
		for _, tag := range s.item.SkillTags {
			if !covered[tag] {
				addsSkill = true
				break
			}
		}
		if !addsSkill {
			continue
		}
		for _, tag := range s.item.SkillTags {
			covered[tag] = true
		}
		picked = append(picked, s.item)
		taken[i] = true
	}

	for i, s := range scored {
		if len(picked) == n {
			break
		}
		if !taken[i] {
			picked = append(picked, s.item)
		}
	}
	return picked
}
