package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathprobe/internal/assessment"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import items and responses from a YAML file",
		Long: `Import a YAML file with two optional lists: items (full 3PL parameters)
and responses (with optional operands, correct_answer and submitted).
Items are written first, then responses are recorded in file order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open fixture: %w", err)
			}
			defer f.Close()

			fixture, err := assessment.DecodeFixture(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			res, err := e.svc.Import(cmd.Context(), fixture)
			fmt.Fprintf(e.out, "Imported %d items and %d responses\n", res.Items, res.Responses)
			return err
		},
	}
	return cmd
}
