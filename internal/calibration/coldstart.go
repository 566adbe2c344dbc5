package calibration

import (
	"github.com/abhisek/mathprobe/internal/irt"
	"github.com/abhisek/mathprobe/internal/skillgraph"
)

// Problem types assigned by the cold-start heuristic.
const (
	ProblemSingleDigit = "single-digit"
	ProblemBridgingTen = "bridging-ten"
	ProblemCarrying    = "carrying"
	ProblemNoCarry     = "no-carry"
)

// largeOperand is the operand size from which an addition is treated as
// working with large numbers.
const largeOperand = 50

// GenerateInitialItemParameters derives starting parameters for the
// addition op1 + op2 from its surface features. The result is uncalibrated:
// SampleSize is 0 and LastCalibrated is zero.
func GenerateInitialItemParameters(op1, op2 int, itemID string) irt.ItemParameters {
	item := irt.ItemParameters{
		ItemID:   itemID,
		Guessing: irt.DefaultGuessing,
	}

	sum := op1 + op2
	switch {
	case op1 < 10 && op2 < 10 && sum <= 10:
		item.Difficulty, item.Discrimination = -2.0, 1.0
		item.ProblemType = ProblemSingleDigit
		item.SkillTags = []string{skillgraph.TagSingleDigitAddition}
	case op1 < 10 && op2 < 10:
		item.Difficulty, item.Discrimination = -1.0, 1.2
		item.ProblemType = ProblemBridgingTen
		item.SkillTags = []string{skillgraph.TagSingleDigitAddition, skillgraph.TagBridgingTen}
	case op1%10+op2%10 >= 10:
		item.Difficulty, item.Discrimination = 0.5, 1.4
		item.ProblemType = ProblemCarrying
		item.SkillTags = []string{skillgraph.TagMultiDigitAddition, skillgraph.TagCarrying}
	default:
		item.Difficulty, item.Discrimination = -0.3, 1.1
		item.ProblemType = ProblemNoCarry
		item.SkillTags = []string{skillgraph.TagMultiDigitAddition, skillgraph.TagPlaceValue}
	}

	if op1 >= largeOperand || op2 >= largeOperand {
		item.Difficulty += 0.7
		item.Discrimination += 0.1
		item.SkillTags = append(item.SkillTags, skillgraph.TagLargeNumbers)
	}

	return item
}
