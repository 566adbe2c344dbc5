package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathprobe/internal/skillgraph"
)

func newSkillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skill",
		Short: "Browse the skill graph",
	}

	cmd.AddCommand(newSkillListCmd())
	cmd.AddCommand(newSkillShowCmd())
	return cmd
}

func newSkillListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all skills in prerequisite order (optionally filtered by strand)",
		RunE: func(cmd *cobra.Command, args []string) error {
			strand, _ := cmd.Flags().GetString("strand")
			roots, _ := cmd.Flags().GetBool("roots")

			skills := skillgraph.TopologicalOrder()
			switch {
			case roots:
				skills = skillgraph.RootSkills()
			case strand != "":
				skills = skillgraph.ByStrand(skillgraph.Strand(strand))
				if len(skills) == 0 {
					return fmt.Errorf("no skills found for strand %q", strand)
				}
			}

			s := stylesFor(cmd)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-26s  %-28s  %4s  %-14s  %s\n",
				"ID", "Name", "Diff", "Strand", "Prerequisites")
			fmt.Fprintln(w, strings.Repeat("─", 100))

			for _, sk := range skills {
				prereqs := strings.Join(sk.Prerequisites, ", ")
				if prereqs == "" {
					prereqs = "-"
				}
				fmt.Fprintf(w, "%-26s  %-28s  %4d  %-14s  %s\n",
					sk.ID, truncate(sk.Name, 28), sk.Difficulty,
					skillgraph.StrandDisplayName(sk.Strand), s.Dim.Render(prereqs))
			}

			fmt.Fprintf(w, "\n%d skills\n", len(skills))
			return nil
		},
	}

	cmd.Flags().String("strand", "", "Filter by strand (number-sense or addition)")
	cmd.Flags().Bool("roots", false, "Only skills with no prerequisites")
	cmd.MarkFlagsMutuallyExclusive("strand", "roots")
	return cmd
}

func newSkillShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <skill-id>",
		Short: "Show a skill with what it needs and what it unlocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sk, err := skillgraph.GetSkill(args[0])
			if err != nil {
				return err
			}

			s := stylesFor(cmd)
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, s.Title.Render(sk.Name))
			fmt.Fprintf(w, "%s %s\n", s.Label.Render("ID:        "), sk.ID)
			fmt.Fprintf(w, "%s %s\n", s.Label.Render("Strand:    "), skillgraph.StrandDisplayName(sk.Strand))
			fmt.Fprintf(w, "%s %d\n", s.Label.Render("Difficulty:"), sk.Difficulty)
			if sk.Description != "" {
				fmt.Fprintln(w)
				fmt.Fprintln(w, sk.Description)
			}
			if sk.Practice != "" {
				fmt.Fprintln(w, s.Dim.Render("Practice: "+sk.Practice))
			}

			list := func(title string, skills []skillgraph.Skill) {
				fmt.Fprintln(w)
				fmt.Fprintln(w, s.Heading.Render(title))
				if len(skills) == 0 {
					fmt.Fprintln(w, s.Dim.Render("  none"))
					return
				}
				for _, o := range skills {
					fmt.Fprintf(w, "  %-26s  %s\n", o.ID, o.Name)
				}
			}
			list("Needs", skillgraph.Prerequisites(sk.ID))
			list("Unlocks", skillgraph.Dependents(sk.ID))
			return nil
		},
	}
}
