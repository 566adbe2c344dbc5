// Package diagnosis classifies wrong answers to arithmetic items into
// recurring error patterns.
package diagnosis

// PatternType names a recurring kind of arithmetic error.
type PatternType string

const (
	PatternOffByOne           PatternType = "off-by-one"
	PatternCarryingError      PatternType = "carrying-error"
	PatternDigitReversal      PatternType = "digit-reversal"
	PatternPlaceValueError    PatternType = "place-value-error"
	PatternOperationConfusion PatternType = "operation-confusion"
)

// Severity grades how often a pattern recurs.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Attempt is one answered problem with enough detail to inspect the
// mistake. Operands holds the two operands when they are known.
type Attempt struct {
	ItemID          string
	Operands        []int
	CorrectAnswer   int
	SubmittedAnswer string
	IsCorrect       bool
}

// ErrorPattern aggregates the wrong answers matching one pattern.
type ErrorPattern struct {
	Type      PatternType `json:"type"`
	Count     int         `json:"count"`
	Frequency float64     `json:"frequency"`
	Examples  []string    `json:"examples"`
	Severity  Severity    `json:"severity"`
}
