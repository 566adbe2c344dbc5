package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathprobe/internal/llm"
	"github.com/abhisek/mathprobe/internal/narrative"
	"github.com/abhisek/mathprobe/internal/report"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Diagnose a learner and recommend practice",
		RunE: func(cmd *cobra.Command, args []string) error {
			learner, _ := cmd.Flags().GetString("learner")
			narrate, _ := cmd.Flags().GetBool("narrate")
			asJSON, _ := cmd.Flags().GetBool("json")
			summary, _ := cmd.Flags().GetBool("summary")
			exclude, _ := cmd.Flags().GetStringSlice("exclude")

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			var skip map[string]bool
			if len(exclude) > 0 {
				skip = make(map[string]bool, len(exclude))
				for _, id := range exclude {
					skip[id] = true
				}
			}

			ctx := cmd.Context()
			result, err := e.svc.Diagnose(ctx, learner, skip)
			if err != nil {
				return err
			}

			var story *narrative.Narrative
			if narrate {
				story, err = narrateReport(ctx, e, result)
				if err != nil {
					e.log.Warn("narration failed", "error", err)
					fmt.Fprintln(cmd.ErrOrStderr(), "Narration unavailable:", err)
				}
			}

			switch {
			case asJSON:
				return printJSON(e.out, struct {
					report.DiagnosticResult
					Narrative *narrative.Narrative `json:"narrative,omitempty"`
				}{result, story})
			case summary:
				fmt.Fprint(e.out, report.GenerateReportSummary(result))
			default:
				renderReport(e.out, e.styles, result)
			}
			if story != nil && !asJSON {
				fmt.Fprintln(e.out)
				renderNarrative(e.out, e.styles, story)
			}
			return nil
		},
	}

	cmd.Flags().String("learner", "", "Learner ID (required)")
	cmd.Flags().Bool("narrate", false, "Add an LLM-written summary for parents")
	cmd.Flags().Bool("json", false, "Print JSON")
	cmd.Flags().Bool("summary", false, "Print the plain-text digest")
	cmd.Flags().StringSlice("exclude", nil, "Item IDs never to suggest, in addition to items already answered")
	_ = cmd.MarkFlagRequired("learner")
	return cmd
}

// narrateReport resolves an LLM provider from the environment and asks it
// to narrate result. Every request is recorded in the llm_events table.
func narrateReport(ctx context.Context, e *env, result report.DiagnosticResult) (*narrative.Narrative, error) {
	cfg, ok := llm.Resolve()
	if !ok {
		return nil, errors.New("no LLM provider configured (set MATHPROBE_LLM_PROVIDER with its key, or ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY or OPENROUTER_API_KEY)")
	}
	cfg.RequestsPerMinute = e.cfg.LLM.RequestsPerMinute

	provider, err := llm.NewProvider(ctx, cfg, e.store.EventRepo(), e.log)
	if err != nil {
		return nil, fmt.Errorf("LLM provider: %w", err)
	}
	return narrative.New(provider, narrative.DefaultConfig()).Narrate(ctx, result)
}
