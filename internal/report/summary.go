package report

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/abhisek/mathprobe/internal/diagnosis"
	"github.com/abhisek/mathprobe/internal/skillgraph"
)

var summaryTemplate = template.Must(template.New("summary").Funcs(template.FuncMap{
	"pct":   func(v float64) string { return fmt.Sprintf("%.0f%%", v*100) },
	"fixed": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"skill": skillgraph.DisplayName,
	"pattern": func(t diagnosis.PatternType) string {
		if info := diagnosis.Lookup(t); info != nil {
			return info.Label
		}
		return string(t)
	},
	"join": strings.Join,
}).Parse(`Diagnostic summary for {{.LearnerID}}
Ability: theta {{fixed .Ability.Theta}} (SE {{fixed .Ability.StandardError}}, {{.Ability.ResponseCount}} responses), percentile {{printf "%.0f" .Percentile}}
{{- if .SkillProfile}}

Skills:
{{- range .SkillProfile}}
  - {{skill .SkillTag}}: mastery {{pct .MasteryLevel}}, {{.ResponseCount}} responses, {{.Trend}}
{{- end}}
{{- end}}
{{- if .ErrorPatterns}}

Error patterns:
{{- range .ErrorPatterns}}
  - {{pattern .Type}} ({{.Severity}}): {{pct .Frequency}} of errors{{if .Examples}}; {{join .Examples "; "}}{{end}}
{{- end}}
{{- end}}
{{- if .Recommendations}}

Recommendations:
{{- range .Recommendations}}
  - [{{.Priority}}] {{.SkillName}}: {{pct .CurrentLevel}} -> {{pct .TargetLevel}}, about {{.EstimatedProblemsToMaster}} problems. {{.SuggestedPractice}}
{{- end}}
{{- end}}
{{- if .NextOptimalItems}}

Next items:
{{- range .NextOptimalItems}}
  - {{.ItemID}} (b={{fixed .Difficulty}})
{{- end}}
{{- end}}
`))

// GenerateReportSummary renders a plain-text digest of result.
func GenerateReportSummary(result DiagnosticResult) string {
	var b strings.Builder
	if err := summaryTemplate.Execute(&b, result); err != nil {
		return fmt.Sprintf("Diagnostic summary for %s unavailable: %v", result.LearnerID, err)
	}
	return b.String()
}
