package diagnosis

// MatchInput is a parsed wrong answer.
type MatchInput struct {
	Correct   int
	Submitted int
	Operands  []int // len 2 when known
}

func (in *MatchInput) delta() int {
	d := in.Correct - in.Submitted
	if d < 0 {
		return -d
	}
	return d
}

func (in *MatchInput) operands() (int, int, bool) {
	if len(in.Operands) != 2 {
		return 0, 0, false
	}
	return in.Operands[0], in.Operands[1], true
}

// Rule recognises one error pattern. Rules are not exclusive: a wrong
// answer can match several.
type Rule interface {
	Pattern() PatternType
	Match(in *MatchInput) bool
}

// DefaultRules returns every rule in taxonomy order.
func DefaultRules() []Rule {
	return []Rule{
		&OffByOneRule{},
		&CarryingRule{},
		&DigitReversalRule{},
		&PlaceValueRule{},
		&OperationConfusionRule{},
	}
}

// OffByOneRule flags answers one away from correct.
type OffByOneRule struct{}

func (r *OffByOneRule) Pattern() PatternType { return PatternOffByOne }

func (r *OffByOneRule) Match(in *MatchInput) bool {
	return in.delta() == 1
}

// CarryingRule flags answers about ten away from correct, the signature of
// a dropped or extra carry.
type CarryingRule struct{}

func (r *CarryingRule) Pattern() PatternType { return PatternCarryingError }

func (r *CarryingRule) Match(in *MatchInput) bool {
	switch in.delta() {
	case 9, 10, 11:
		return true
	}
	return false
}

// DigitReversalRule flags a correct two-digit answer written with its
// digits swapped. Only the last digit is moved to the front, so longer
// answers are compared as if they had two digits.
type DigitReversalRule struct{}

func (r *DigitReversalRule) Pattern() PatternType { return PatternDigitReversal }

func (r *DigitReversalRule) Match(in *MatchInput) bool {
	if in.Correct < 10 || in.Submitted < 10 || in.Correct == in.Submitted {
		return false
	}
	reversed := (in.Correct%10)*10 + in.Correct/10
	return in.Submitted == reversed
}

// PlaceValueRule flags answers that kept only the ones digit.
type PlaceValueRule struct{}

func (r *PlaceValueRule) Pattern() PatternType { return PatternPlaceValueError }

func (r *PlaceValueRule) Match(in *MatchInput) bool {
	return in.Correct >= 10 && in.Submitted >= 0 && in.Submitted < 10 && in.Submitted == in.Correct%10
}

// OperationConfusionRule flags answers produced by the wrong operation.
// Needs both operands.
type OperationConfusionRule struct{}

func (r *OperationConfusionRule) Pattern() PatternType { return PatternOperationConfusion }

func (r *OperationConfusionRule) Match(in *MatchInput) bool {
	a, b, ok := in.operands()
	if !ok {
		return false
	}
	sum, diff, product := a+b, a-b, a*b
	absDiff := diff
	if absDiff < 0 {
		absDiff = -absDiff
	}
	switch in.Correct {
	case sum:
		return in.Submitted != sum && (in.Submitted == absDiff || in.Submitted == product)
	case diff, product:
		return in.Submitted == sum && in.Submitted != in.Correct
	}
	return false
}
