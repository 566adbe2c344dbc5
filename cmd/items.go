package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathprobe/internal/irt"
)

func newItemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List the item bank",
		RunE: func(cmd *cobra.Command, args []string) error {
			skill, _ := cmd.Flags().GetString("skill")
			asJSON, _ := cmd.Flags().GetBool("json")

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			all, err := e.store.ItemRepo().AllItems(cmd.Context())
			if err != nil {
				return fmt.Errorf("list items: %w", err)
			}
			items := all
			if skill != "" {
				items = items[:0:0]
				for _, it := range all {
					if it.HasSkill(skill) {
						items = append(items, it)
					}
				}
			}

			if asJSON {
				if items == nil {
					items = []irt.ItemParameters{}
				}
				return printJSON(e.out, items)
			}
			if len(items) == 0 {
				fmt.Fprintln(e.out, "No items found.")
				return nil
			}
			renderItems(e.out, e.styles, items)
			return nil
		},
	}

	cmd.Flags().String("skill", "", "Only items tagged with this skill")
	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}
