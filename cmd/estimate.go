package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/mathprobe/internal/assessment"
)

func newEstimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate a learner's ability",
		RunE: func(cmd *cobra.Command, args []string) error {
			learner, _ := cmd.Flags().GetString("learner")
			methodName, _ := cmd.Flags().GetString("method")
			asJSON, _ := cmd.Flags().GetBool("json")

			method, err := assessment.ParseMethod(methodName)
			if err != nil {
				return err
			}

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			est, err := e.svc.Estimate(cmd.Context(), learner, method)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(e.out, est)
			}
			renderEstimate(e.out, e.styles, est, string(method))
			return nil
		},
	}

	cmd.Flags().String("learner", "", "Learner ID (required)")
	cmd.Flags().String("method", "eap", "Estimation method: eap or mle")
	cmd.Flags().Bool("json", false, "Print JSON")
	_ = cmd.MarkFlagRequired("learner")
	return cmd
}
