// Package irt implements the three-parameter logistic (3PL) item response
// model: response probability, item and test information, ability
// estimation (MLE and EAP) and maximum-information item selection.
//
// Everything in this package is a pure function of its arguments.
package irt

import (
	"strconv"
	"time"
)

const (
	// D is the logistic scaling constant that makes the logistic curve
	// approximate the normal ogive.
	D = 1.702

	// ThetaMin and ThetaMax bound every ability estimate.
	ThetaMin = -4.0
	ThetaMax = 4.0

	// NoInformationSE is reported as the standard error when there is no
	// information about the learner at all.
	NoInformationSE = 999.0

	// DefaultGuessing is the lower asymptote used for free-response
	// arithmetic items.
	DefaultGuessing = 0.05

	// Discrimination and difficulty ranges for calibrated items.
	MinDiscrimination = 0.3
	MaxDiscrimination = 3.0
	MinDifficulty     = -4.0
	MaxDifficulty     = 4.0
)

// ItemParameters holds the 3PL parameters and metadata of one item.
type ItemParameters struct {
	ItemID         string    `json:"item_id" yaml:"item_id"`
	Discrimination float64   `json:"discrimination" yaml:"discrimination"`
	Difficulty     float64   `json:"difficulty" yaml:"difficulty"`
	Guessing       float64   `json:"guessing" yaml:"guessing"`
	SkillTags      []string  `json:"skill_tags" yaml:"skill_tags"`
	ProblemType    string    `json:"problem_type" yaml:"problem_type"`
	SampleSize     int       `json:"sample_size" yaml:"sample_size"`
	LastCalibrated time.Time `json:"last_calibrated,omitzero" yaml:"last_calibrated,omitempty"`
}

// HasSkill reports whether the item is tagged with the given skill.
func (p ItemParameters) HasSkill(tag string) bool {
	for _, t := range p.SkillTags {
		if t == tag {
			return true
		}
	}
	return false
}

// Source returns where the item's parameters came from.
func (p ItemParameters) Source() Provenance {
	if p.SampleSize > 0 && !p.LastCalibrated.IsZero() {
		return Calibrated{SampleSize: p.SampleSize, At: p.LastCalibrated}
	}
	return ColdStart{Heuristic: p.ProblemType}
}

// Provenance distinguishes heuristic cold-start parameters from parameters
// fitted to observed responses.
type Provenance interface {
	isProvenance()
	String() string
}

// ColdStart marks parameters produced by the operand heuristic.
type ColdStart struct {
	Heuristic string
}

func (ColdStart) isProvenance() {}

func (c ColdStart) String() string {
	if c.Heuristic == "" {
		return "cold-start"
	}
	return "cold-start (" + c.Heuristic + ")"
}

// Calibrated marks parameters estimated from SampleSize responses at At.
type Calibrated struct {
	SampleSize int
	At         time.Time
}

func (Calibrated) isProvenance() {}

func (c Calibrated) String() string {
	return "calibrated n=" + strconv.Itoa(c.SampleSize) + " at " + c.At.UTC().Format(time.DateOnly)
}

// Response is a single scored answer. Responses are never mutated once
// recorded.
type Response struct {
	ID             string    `json:"id,omitempty" yaml:"id,omitempty"`
	LearnerID      string    `json:"learner_id" yaml:"learner_id"`
	ItemID         string    `json:"item_id" yaml:"item_id"`
	IsCorrect      bool      `json:"is_correct" yaml:"is_correct"`
	ResponseTimeMs int64     `json:"response_time_ms" yaml:"response_time_ms"`
	Timestamp      time.Time `json:"timestamp" yaml:"timestamp"`
}

// ItemBank maps item id to its parameters.
type ItemBank map[string]ItemParameters

// NewItemBank indexes items by id. Later entries win on duplicate ids.
func NewItemBank(items []ItemParameters) ItemBank {
	bank := make(ItemBank, len(items))
	for _, it := range items {
		bank[it.ItemID] = it
	}
	return bank
}

// Interval is a closed confidence interval.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// AbilityEstimate is a point estimate of latent ability with its
// uncertainty.
type AbilityEstimate struct {
	LearnerID     string    `json:"learner_id"`
	Theta         float64   `json:"theta"`
	StandardError float64   `json:"standard_error"`
	Confidence95  Interval  `json:"confidence_95"`
	UpdatedAt     time.Time `json:"updated_at"`
	ResponseCount int       `json:"response_count"`
}

func newEstimate(learnerID string, theta, se float64, at time.Time, n int) AbilityEstimate {
	return AbilityEstimate{
		LearnerID:     learnerID,
		Theta:         theta,
		StandardError: se,
		Confidence95:  Interval{Lower: theta - 1.96*se, Upper: theta + 1.96*se},
		UpdatedAt:     at,
		ResponseCount: n,
	}
}
