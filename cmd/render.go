package cmd

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathprobe/internal/calibration"
	"github.com/abhisek/mathprobe/internal/diagnosis"
	"github.com/abhisek/mathprobe/internal/irt"
	"github.com/abhisek/mathprobe/internal/mastery"
	"github.com/abhisek/mathprobe/internal/narrative"
	"github.com/abhisek/mathprobe/internal/report"
	"github.com/abhisek/mathprobe/internal/skillgraph"
	"github.com/abhisek/mathprobe/internal/ui/theme"
)

const barWidth = 10

func bandStyle(s theme.Styles, level float64) lipgloss.Style {
	switch mastery.ResolveBand(level) {
	case mastery.BandStrength:
		return s.Good
	case mastery.BandDeveloping:
		return s.Fair
	default:
		return s.Poor
	}
}

func pct(v float64) string {
	return fmt.Sprintf("%3.0f%%", v*100)
}

func renderEstimate(w io.Writer, s theme.Styles, est irt.AbilityEstimate, method string) {
	fmt.Fprintln(w, s.Title.Render(fmt.Sprintf("Ability (%s) for %s", strings.ToUpper(method), est.LearnerID)))
	if est.StandardError >= irt.NoInformationSE {
		fmt.Fprintf(w, "  theta       %6.2f  (no information)\n", est.Theta)
	} else {
		fmt.Fprintf(w, "  theta       %6.2f  (SE %.2f, 95%% CI %.2f .. %.2f)\n",
			est.Theta, est.StandardError, est.Confidence95.Lower, est.Confidence95.Upper)
	}
	fmt.Fprintf(w, "  percentile  %6.0f\n", irt.ThetaToPercentile(est.Theta))
	fmt.Fprintf(w, "  responses   %6d\n", est.ResponseCount)
	if est.ResponseCount == 0 {
		fmt.Fprintln(w, s.Dim.Render("  No responses yet: showing the prior."))
	}
}

func renderReport(w io.Writer, s theme.Styles, r report.DiagnosticResult) {
	fmt.Fprintln(w, s.Title.Render("Diagnostic report for "+r.LearnerID))
	fmt.Fprintf(w, "Ability: theta %.2f (SE %.2f), percentile %.0f, %d responses\n",
		r.Ability.Theta, r.Ability.StandardError, r.Percentile, r.Ability.ResponseCount)

	fmt.Fprintln(w)
	fmt.Fprintln(w, s.Heading.Render("Skills"))
	if len(r.SkillProfile) == 0 {
		fmt.Fprintln(w, s.Dim.Render("  No skills practised yet."))
	}
	for _, sm := range r.SkillProfile {
		st := bandStyle(s, sm.MasteryLevel)
		fmt.Fprintf(w, "  %-28s %s %s  %3d/%-3d %s\n",
			truncate(skillgraph.DisplayName(sm.SkillTag), 28),
			s.Bar(sm.MasteryLevel, barWidth),
			st.Render(pct(sm.MasteryLevel)),
			sm.CorrectCount, sm.ResponseCount, sm.Trend)
	}

	if len(r.ErrorPatterns) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.Heading.Render("Error patterns"))
		for _, p := range r.ErrorPatterns {
			label := string(p.Type)
			if info := diagnosis.Lookup(p.Type); info != nil {
				label = info.Label
			}
			sev := s.Fair
			if p.Severity == diagnosis.SeverityHigh {
				sev = s.Poor
			}
			line := fmt.Sprintf("  %-20s %s  %s of errors", label, sev.Render(fmt.Sprintf("%-6s", p.Severity)), pct(p.Frequency))
			if len(p.Examples) > 0 {
				line += s.Dim.Render("  e.g. " + p.Examples[0])
			}
			fmt.Fprintln(w, line)
		}
	}

	if len(r.Recommendations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.Heading.Render("Recommendations"))
		for _, rec := range r.Recommendations {
			fmt.Fprintf(w, "  %s %s  %s -> %s, about %d problems\n",
				s.Label.Render(fmt.Sprintf("[%s]", rec.Priority)), rec.SkillName,
				strings.TrimSpace(pct(rec.CurrentLevel)), strings.TrimSpace(pct(rec.TargetLevel)),
				rec.EstimatedProblemsToMaster)
			if rec.SuggestedPractice != "" {
				fmt.Fprintln(w, s.Dim.Render("      "+rec.SuggestedPractice))
			}
		}
	}

	if len(r.NextOptimalItems) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.Heading.Render("Next items"))
		for _, it := range r.NextOptimalItems {
			fmt.Fprintf(w, "  %-20s b=%5.2f  P(correct)=%s  %s\n",
				it.ItemID, it.Difficulty, pct(irt.Probability(r.Ability.Theta, it)), s.Dim.Render(it.Source().String()))
		}
	}
}

func renderNarrative(w io.Writer, s theme.Styles, n *narrative.Narrative) {
	var b strings.Builder
	b.WriteString(s.Title.Render(n.Headline))
	b.WriteString("\n\n")
	b.WriteString(n.Summary)
	if len(n.NextSteps) > 0 {
		b.WriteString("\n")
		for i, step := range n.NextSteps {
			fmt.Fprintf(&b, "\n%d. %s", i+1, step)
		}
	}
	fmt.Fprintln(w, s.Card.Render(b.String()))
	fmt.Fprintln(w, s.Dim.Render("Written by "+n.Model))
}

func renderProfile(w io.Writer, s theme.Styles, p report.StudentProfile) {
	fmt.Fprintln(w, s.Title.Render("Profile for "+p.LearnerID))
	fmt.Fprintf(w, "Ability: theta %.2f (SE %.2f), %d responses\n",
		p.Ability.Theta, p.Ability.StandardError, p.Ability.ResponseCount)

	names := func(tags []string) string {
		if len(tags) == 0 {
			return s.Dim.Render("none yet")
		}
		out := make([]string, len(tags))
		for i, t := range tags {
			out[i] = skillgraph.DisplayName(t)
		}
		return strings.Join(out, ", ")
	}
	fmt.Fprintf(w, "%s %s\n", s.Good.Render("Strengths: "), names(p.Strengths))
	fmt.Fprintf(w, "%s %s\n", s.Poor.Render("Weaknesses:"), names(p.Weaknesses))
	if p.RecommendedFocus != "" {
		fmt.Fprintf(w, "%s %s\n", s.Label.Render("Focus:     "), skillgraph.DisplayName(p.RecommendedFocus))
	}

	if len(p.LearningHistory) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.Heading.Render("History"))
		for _, h := range p.LearningHistory {
			fmt.Fprintf(w, "  %s  theta %6.2f  %s %s  %d responses\n",
				h.Date, h.Theta, s.Bar(h.Accuracy, barWidth), s.Level(h.Accuracy).Render(pct(h.Accuracy)), h.ResponseCount)
		}
	}
	fmt.Fprintln(w, s.Dim.Render("Updated "+p.UpdatedAt.Local().Format("2006-01-02 15:04")))
}

func renderOutcomes(w io.Writer, s theme.Styles, outcomes []calibration.Outcome) {
	fmt.Fprintf(w, "%-20s  %-22s  %5s  %6s  %6s  %6s  %6s\n",
		"Item", "Status", "N", "a", "b", "Infit", "Outfit")
	fmt.Fprintln(w, strings.Repeat("─", 82))

	counts := make(map[calibration.Status]int)
	for _, o := range outcomes {
		counts[o.Status]++
		status := fmt.Sprintf("%-22s", o.Status)
		if o.Result == nil {
			fmt.Fprintf(w, "%-20s  %s  %5d\n", truncate(o.ItemID, 20), s.Dim.Render(status), o.Responses)
			continue
		}
		it := o.Result.Item
		fmt.Fprintf(w, "%-20s  %s  %5d  %6.2f  %6.2f  %6.2f  %6.2f\n",
			truncate(o.ItemID, 20), s.Good.Render(status), o.Responses,
			it.Discrimination, it.Difficulty, o.Result.Fit.Infit, o.Result.Fit.Outfit)
	}
	fmt.Fprintf(w, "\n%d calibrated, %d too few responses, %d up to date\n",
		counts[calibration.StatusCalibrated], counts[calibration.StatusInsufficientSample], counts[calibration.StatusUpToDate])
}

func renderItems(w io.Writer, s theme.Styles, items []irt.ItemParameters) {
	fmt.Fprintf(w, "%-20s  %6s  %6s  %5s  %-16s  %s\n",
		"Item", "a", "b", "c", "Type", "Source")
	fmt.Fprintln(w, strings.Repeat("─", 90))
	for _, it := range items {
		fmt.Fprintf(w, "%-20s  %6.2f  %6.2f  %5.2f  %-16s  %s\n",
			truncate(it.ItemID, 20), it.Discrimination, it.Difficulty, it.Guessing,
			truncate(it.ProblemType, 16), s.Dim.Render(it.Source().String()))
	}
	fmt.Fprintf(w, "\n%d items\n", len(items))
}
