package narrative

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathprobe/internal/diagnosis"
	"github.com/abhisek/mathprobe/internal/report"
	"github.com/abhisek/mathprobe/internal/skillgraph"
)

const systemPrompt = `You explain arithmetic assessment results to the parent or teacher of a child in grades 2-5. Be warm, specific and brief. Never invent numbers that are not in the report.`

// buildUserMessage describes result without the learner id, which never
// leaves the machine.
func buildUserMessage(result report.DiagnosticResult, maxSteps int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Overall: percentile %.0f from %d answered problems (ability %.2f, standard error %.2f).\n",
		result.Percentile, result.Ability.ResponseCount, result.Ability.Theta, result.Ability.StandardError)

	b.WriteString("\nSkills:\n")
	if len(result.SkillProfile) == 0 {
		b.WriteString("None practised yet\n")
	}
	for _, sm := range result.SkillProfile {
		fmt.Fprintf(&b, "- %s: mastery %.0f%%, %d of %d correct, trend %s\n",
			skillgraph.DisplayName(sm.SkillTag), sm.MasteryLevel*100, sm.CorrectCount, sm.ResponseCount, sm.Trend)
	}

	if len(result.ErrorPatterns) > 0 {
		b.WriteString("\nError patterns:\n")
		for _, p := range result.ErrorPatterns {
			label, desc := string(p.Type), ""
			if info := diagnosis.Lookup(p.Type); info != nil {
				label, desc = info.Label, " "+info.Description
			}
			fmt.Fprintf(&b, "- %s: %d times, severity %s.%s\n", label, p.Count, p.Severity, desc)
		}
	}

	if len(result.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, r := range result.Recommendations {
			fmt.Fprintf(&b, "- [%s] %s: about %d problems. %s\n",
				r.Priority, r.SkillName, r.EstimatedProblemsToMaster, r.SuggestedPractice)
		}
	}

	fmt.Fprintf(&b, `
Instructions:
1. Write a one-line headline.
2. Summarize strengths first, then the weakest skills and any error patterns, in plain language without jargon like theta or IRT.
3. Give at most %d next steps, drawn from the recommendations above.
4. Plain ASCII text only.`, maxSteps)

	return b.String()
}
