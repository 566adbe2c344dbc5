package diagnosis

import "github.com/abhisek/mathprobe/internal/skillgraph"

// PatternInfo describes an error pattern for learners and parents.
type PatternInfo struct {
	Type        PatternType
	Label       string
	Description string
	Remediation string
	SkillTag    string // skill the pattern points back to
}

// registry is the package-level pattern registry, keyed by type.
var registry map[PatternType]*PatternInfo

func init() {
	registry = make(map[PatternType]*PatternInfo, len(seedPatterns))
	for i := range seedPatterns {
		registry[seedPatterns[i].Type] = &seedPatterns[i]
	}
}

var seedPatterns = []PatternInfo{
	{
		Type:        PatternOffByOne,
		Label:       "Off by one",
		Description: "Answer is one more or one less than correct, typically from miscounting on or starting the count at the first addend.",
		Remediation: "Count on from the larger number using a number line and say the first number before counting.",
		SkillTag:    skillgraph.TagSingleDigitAddition,
	},
	{
		Type:        PatternCarryingError,
		Label:       "Carrying error",
		Description: "Answer is about ten away from correct: a carry was dropped or added twice.",
		Remediation: "Work through regrouping with base-ten blocks and write the carried one above the tens column every time.",
		SkillTag:    skillgraph.TagCarrying,
	},
	{
		Type:        PatternDigitReversal,
		Label:       "Digit reversal",
		Description: "The digits of a two-digit answer are written in the wrong order; e.g., 23 written as 32.",
		Remediation: "Say the answer aloud as tens and ones before writing it, then check the tens digit first.",
		SkillTag:    skillgraph.TagPlaceValue,
	},
	{
		Type:        PatternPlaceValueError,
		Label:       "Dropped tens digit",
		Description: "Only the ones digit of the answer was written; e.g., 14 written as 4.",
		Remediation: "Use a place-value chart to record tens and ones in separate columns.",
		SkillTag:    skillgraph.TagPlaceValue,
	},
	{
		Type:        PatternOperationConfusion,
		Label:       "Operation confusion",
		Description: "The answer comes from a different operation than the one asked; e.g., subtracting instead of adding.",
		Remediation: "Circle the operation sign before solving and say the problem as a sentence (\"seven plus three\").",
		SkillTag:    skillgraph.TagSingleDigitAddition,
	},
}

// Lookup returns the registry entry for a pattern type, or nil.
func Lookup(t PatternType) *PatternInfo {
	return registry[t]
}

// AllPatterns returns every pattern in taxonomy order.
func AllPatterns() []PatternInfo {
	out := make([]PatternInfo, len(seedPatterns))
	copy(out, seedPatterns)
	return out
}
