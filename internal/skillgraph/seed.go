package skillgraph

import "fmt"

// Skill tags carried by items. These are the IDs of the seeded skills.
const (
	TagPlaceValue          = "place-value"
	TagSingleDigitAddition = "single-digit-addition"
	TagBridgingTen         = "bridging-ten"
	TagMultiDigitAddition  = "multi-digit-addition"
	TagCarrying            = "carrying"
	TagLargeNumbers        = "large-numbers"
)

func init() {
	skills := seedSkills()
	if err := validateSkills(skills); err != nil {
		panic(fmt.Sprintf("invalid seed skill graph: %v", err))
	}
	g = buildGraph(skills)
}

func seedSkills() []Skill {
	return []Skill{
		{
			ID:          TagPlaceValue,
			Name:        "Place Value",
			Description: "Understand that the digits of a two-digit number represent tens and ones.",
			Strand:      StrandNumberSense,
			Difficulty:  1,
			Practice:    "Build numbers with tens rods and ones cubes, then write them in expanded form (47 = 40 + 7).",
		},
		{
			ID:          TagSingleDigitAddition,
			Name:        "Single-Digit Addition",
			Description: "Add two numbers below ten with a sum of at most ten.",
			Strand:      StrandAddition,
			Difficulty:  1,
			Practice:    "Practise number bonds to 10 with a ten-frame and short timed fact rounds.",
		},
		{
			ID:            TagBridgingTen,
			Name:          "Bridging Ten",
			Description:   "Add two single-digit numbers whose sum is between 11 and 20.",
			Strand:        StrandAddition,
			Difficulty:    2,
			Practice:      "Make ten first: split the second addend to complete ten, then add the rest (8 + 5 = 8 + 2 + 3).",
			Prerequisites: []string{TagSingleDigitAddition},
		},
		{
			ID:            TagMultiDigitAddition,
			Name:          "Multi-Digit Addition",
			Description:   "Add two-digit numbers column by column without regrouping.",
			Strand:        StrandAddition,
			Difficulty:    3,
			Practice:      "Line numbers up in a place-value chart and add ones then tens.",
			Prerequisites: []string{TagSingleDigitAddition, TagPlaceValue},
		},
		{
			ID:            TagCarrying,
			Name:          "Carrying",
			Description:   "Add multi-digit numbers where the ones column sums to ten or more.",
			Strand:        StrandAddition,
			Difficulty:    4,
			Practice:      "Use base-ten blocks to trade ten ones for a ten, then record the carried digit above the tens column.",
			Prerequisites: []string{TagBridgingTen, TagMultiDigitAddition},
		},
		{
			ID:            TagLargeNumbers,
			Name:          "Large Numbers",
			Description:   "Add numbers of fifty or more, including sums past one hundred.",
			Strand:        StrandAddition,
			Difficulty:    5,
			Practice:      "Estimate by rounding to the nearest ten before adding, then check the exact answer against the estimate.",
			Prerequisites: []string{TagCarrying},
		},
	}
}
