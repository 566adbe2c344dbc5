package diagnosis

import (
	"fmt"
	"sort"
)

const (
	// MaxExamples bounds the examples kept per pattern.
	MaxExamples = 3

	highSeverityCount   = 5
	mediumSeverityCount = 2
)

// AnalyzeErrorPatterns runs DefaultRules over attempts.
func AnalyzeErrorPatterns(attempts []Attempt) []ErrorPattern {
	return AnalyzeErrorPatternsWith(DefaultRules(), attempts)
}

// AnalyzeErrorPatternsWith classifies every incorrect attempt whose
// submitted answer parses as an integer. Frequency is the share of those
// attempts matching the pattern. Patterns that never match are omitted and
// the rest are ordered by frequency, most frequent first.
func AnalyzeErrorPatternsWith(rules []Rule, attempts []Attempt) []ErrorPattern {
	counts := make(map[PatternType]*ErrorPattern, len(rules))
	total := 0

	for _, a := range attempts {
		if a.IsCorrect {
			continue
		}
		submitted, err := ParseAnswer(a.SubmittedAnswer)
		if err != nil {
			continue
		}
		total++

		in := &MatchInput{Correct: a.CorrectAnswer, Submitted: submitted, Operands: a.Operands}
		for _, r := range rules {
			if !r.Match(in) {
				continue
			}
			p, ok := counts[r.Pattern()]
			if !ok {
				p = &ErrorPattern{Type: r.Pattern()}
				counts[r.Pattern()] = p
			}
			p.Count++
			if len(p.Examples) < MaxExamples {
				p.Examples = append(p.Examples, formatExample(a, submitted))
			}
		}
	}

	patterns := make([]ErrorPattern, 0, len(counts))
	for _, r := range rules {
		p, ok := counts[r.Pattern()]
		if !ok {
			continue
		}
		delete(counts, r.Pattern())
		p.Frequency = float64(p.Count) / float64(total)
		p.Severity = severityFor(p.Count)
		patterns = append(patterns, *p)
	}
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Frequency > patterns[j].Frequency
	})
	return patterns
}

func severityFor(count int) Severity {
	switch {
	case count >= highSeverityCount:
		return SeverityHigh
	case count >= mediumSeverityCount:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func formatExample(a Attempt, submitted int) string {
	return fmt.Sprintf("expected %d, got %d", a.CorrectAnswer, submitted)
}
