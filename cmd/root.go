package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathprobe/internal/store"
)

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mathprobe",
		Short: "Adaptive arithmetic assessment",
		Long: `mathprobe scores arithmetic practice with item response theory: it records
answers, estimates ability, diagnoses error patterns and recommends what to
practise next.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MATHPROBE_DB env var)")
	cmd.PersistentFlags().String("config", "", "Path to YAML config file")
	cmd.PersistentFlags().String("log-mode", "", "Log output: dev or prod (overrides config)")
	cmd.PersistentFlags().Bool("no-color", os.Getenv("NO_COLOR") != "", "Disable coloured output")

	cmd.AddCommand(newRecordCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newEstimateCmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newProfileCmd())
	cmd.AddCommand(newCalibrateCmd())
	cmd.AddCommand(newItemsCmd())
	cmd.AddCommand(newSkillCmd())
	cmd.AddCommand(newLLMCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command with ctx available to every subcommand
// through cmd.Context().
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then MATHPROBE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
