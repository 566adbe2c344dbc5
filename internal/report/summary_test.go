package report

import (
	"strings"
	"testing"
)

func TestGenerateReportSummary(t *testing.T) {
	res := GenerateDiagnosticReport(testInput())
	out := GenerateReportSummary(res)

	for _, want := range []string{
		"Diagnostic summary for kid",
		"Skills:",
		"Bridging Ten",
		"Error patterns:",
		"Off by one",
		"expected 15, got 14",
		"Recommendations:",
		"Next items:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestGenerateReportSummary_Empty(t *testing.T) {
	out := GenerateReportSummary(DiagnosticResult{LearnerID: "new"})
	if !strings.HasPrefix(out, "Diagnostic summary for new") {
		t.Errorf("unexpected summary: %q", out)
	}
	if strings.Contains(out, "Skills:") || strings.Contains(out, "Error patterns:") {
		t.Errorf("empty sections should be omitted: %q", out)
	}
}
