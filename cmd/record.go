package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathprobe/internal/assessment"
	"github.com/abhisek/mathprobe/internal/irt"
)

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record one answered problem",
		Long: `Record a learner's answer to an item. When --ops is given the item is
created with cold-start parameters if it is new, and the submitted answer is
kept for error pattern analysis.`,
		Example: `  mathprobe record --learner s1 --item add_47_38 --ops 47,38 --answer 85 --submitted 75
  mathprobe record --learner s1 --item add_3_4 --correct --time-ms 2100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			learner, _ := cmd.Flags().GetString("learner")
			item, _ := cmd.Flags().GetString("item")
			correct, _ := cmd.Flags().GetBool("correct")
			timeMs, _ := cmd.Flags().GetInt64("time-ms")
			at, _ := cmd.Flags().GetString("at")
			ops, _ := cmd.Flags().GetIntSlice("ops")
			answer, _ := cmd.Flags().GetInt("answer")
			submitted, _ := cmd.Flags().GetString("submitted")

			r := irt.Response{
				LearnerID:      learner,
				ItemID:         item,
				IsCorrect:      correct,
				ResponseTimeMs: timeMs,
			}
			if at != "" {
				ts, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at %q: %w", at, err)
				}
				r.Timestamp = ts
			}

			var detail *assessment.Detail
			if len(ops) > 0 || submitted != "" {
				detail = &assessment.Detail{Operands: ops, CorrectAnswer: answer, Submitted: submitted}
				// A submitted answer decides correctness unless --correct was given.
				if submitted != "" && !cmd.Flags().Changed("correct") && cmd.Flags().Changed("answer") {
					r.IsCorrect = submitted == fmt.Sprint(answer)
				}
			}

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			stored, err := e.svc.RecordResponse(cmd.Context(), r, detail)
			if err != nil {
				return err
			}

			verdict := e.styles.Poor.Render("incorrect")
			if stored.IsCorrect {
				verdict = e.styles.Good.Render("correct")
			}
			fmt.Fprintf(e.out, "Recorded %s (%s) for %s on %s\n", stored.ID, verdict, stored.LearnerID, stored.ItemID)
			return nil
		},
	}

	cmd.Flags().String("learner", "", "Learner ID (required)")
	cmd.Flags().String("item", "", "Item ID (required)")
	cmd.Flags().Bool("correct", false, "The answer was correct")
	cmd.Flags().Int64("time-ms", 0, "Response time in milliseconds")
	cmd.Flags().String("at", "", "Answer time (RFC 3339, default now)")
	cmd.Flags().IntSlice("ops", nil, "The two operands, e.g. 47,38")
	cmd.Flags().Int("answer", 0, "The correct answer")
	cmd.Flags().String("submitted", "", "What the learner answered")
	_ = cmd.MarkFlagRequired("learner")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}
