package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newCalibrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Re-estimate item parameters from recorded responses",
		Long: `Estimate every learner's ability, then re-fit difficulty and
discrimination for each item with enough responses whose parameters are
older than the recalibration interval. Items are fitted in parallel.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			outcomes, err := e.svc.Recalibrate(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(e.out, outcomes)
			}
			if len(outcomes) == 0 {
				fmt.Fprintln(e.out, "Item bank is empty.")
				return nil
			}
			renderOutcomes(e.out, e.styles, outcomes)
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}
