package diagnosis

import (
	"math"
	"testing"
)

func wrong(correct int, submitted string, operands ...int) Attempt {
	return Attempt{CorrectAnswer: correct, SubmittedAnswer: submitted, Operands: operands}
}

func TestAnalyzeErrorPatterns(t *testing.T) {
	attempts := []Attempt{
		wrong(23, "32"),
		wrong(42, "32"),
		wrong(15, "14"),
		wrong(15, "16"),
		wrong(10, "4", 7, 3),
		wrong(55, "abc"),
		{CorrectAnswer: 55, SubmittedAnswer: "55", IsCorrect: true},
		wrong(30, "17"),
	}

	got := AnalyzeErrorPatterns(attempts)

	want := []struct {
		typ      PatternType
		count    int
		severity Severity
	}{
		{PatternOffByOne, 2, SeverityMedium},
		{PatternCarryingError, 2, SeverityMedium},
		{PatternDigitReversal, 1, SeverityLow},
		{PatternOperationConfusion, 1, SeverityLow},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d patterns, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		p := got[i]
		if p.Type != w.typ || p.Count != w.count || p.Severity != w.severity {
			t.Errorf("pattern[%d] = %s/%d/%s, want %s/%d/%s", i, p.Type, p.Count, p.Severity, w.typ, w.count, w.severity)
		}
		if math.Abs(p.Frequency-float64(w.count)/6) > 1e-9 {
			t.Errorf("pattern[%d] frequency = %v, want %v", i, p.Frequency, float64(w.count)/6)
		}
	}
	if got[2].Examples[0] != "expected 23, got 32" {
		t.Errorf("example = %q", got[2].Examples[0])
	}
}

func TestAnalyzeErrorPatterns_SeverityAndExamplesBound(t *testing.T) {
	var attempts []Attempt
	for range 6 {
		attempts = append(attempts, wrong(15, "14"))
	}
	got := AnalyzeErrorPatterns(attempts)
	if len(got) != 1 {
		t.Fatalf("got %d patterns, want 1", len(got))
	}
	if got[0].Severity != SeverityHigh {
		t.Errorf("Severity = %s, want high", got[0].Severity)
	}
	if got[0].Frequency != 1 {
		t.Errorf("Frequency = %v, want 1", got[0].Frequency)
	}
	if len(got[0].Examples) != MaxExamples {
		t.Errorf("len(Examples) = %d, want %d", len(got[0].Examples), MaxExamples)
	}
}

func TestAnalyzeErrorPatterns_NoErrors(t *testing.T) {
	got := AnalyzeErrorPatterns([]Attempt{{CorrectAnswer: 5, SubmittedAnswer: "5", IsCorrect: true}})
	if len(got) != 0 {
		t.Errorf("expected no patterns, got %+v", got)
	}
	if got := AnalyzeErrorPatterns(nil); len(got) != 0 {
		t.Errorf("expected no patterns for nil input, got %+v", got)
	}
}

func TestLookup(t *testing.T) {
	for _, r := range DefaultRules() {
		info := Lookup(r.Pattern())
		if info == nil {
			t.Fatalf("Lookup(%s) returned nil", r.Pattern())
		}
		if info.Label == "" || info.Description == "" || info.Remediation == "" {
			t.Errorf("incomplete registry entry for %s: %+v", r.Pattern(), info)
		}
	}
	if Lookup("nonexistent") != nil {
		t.Error("Lookup(nonexistent) should return nil")
	}
	if len(AllPatterns()) != len(DefaultRules()) {
		t.Errorf("taxonomy and rules disagree in size")
	}
}
