package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update and show a learner's longitudinal profile",
		Long: `Recompute the learner's profile, fold today's practice into the learning
history and save a snapshot. History older than 30 days is dropped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			learner, _ := cmd.Flags().GetString("learner")
			asJSON, _ := cmd.Flags().GetBool("json")

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			p, err := e.svc.Profile(cmd.Context(), learner, time.Now())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(e.out, p)
			}
			renderProfile(e.out, e.styles, p)
			return nil
		},
	}

	cmd.Flags().String("learner", "", "Learner ID (required)")
	cmd.Flags().Bool("json", false, "Print JSON")
	_ = cmd.MarkFlagRequired("learner")
	return cmd
}
