// Package mastery derives per-skill mastery from a learner's response log.
package mastery

// Trend is the direction of a learner's recent performance on a skill.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// SkillMastery summarises a learner's evidence on one skill tag.
type SkillMastery struct {
	SkillTag          string  `json:"skill_tag"`
	MasteryLevel      float64 `json:"mastery_level"`
	Confidence        float64 `json:"confidence"`
	ResponseCount     int     `json:"response_count"`
	CorrectCount      int     `json:"correct_count"`
	RecentAccuracy    float64 `json:"recent_accuracy"`
	Trend             Trend   `json:"trend"`
	AvgResponseTimeMs float64 `json:"avg_response_time_ms"`
}

// Accuracy returns the overall accuracy ratio.
func (sm SkillMastery) Accuracy() float64 {
	if sm.ResponseCount == 0 {
		return 0.0
	}
	return float64(sm.CorrectCount) / float64(sm.ResponseCount)
}
