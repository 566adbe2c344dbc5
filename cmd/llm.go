package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathprobe/internal/llm"
	"github.com/abhisek/mathprobe/internal/store"
)

func newLLMCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "llm",
		Short: "Inspect recorded LLM requests and usage",
	}

	cmd.AddCommand(newLLMListCmd())
	cmd.AddCommand(newLLMViewCmd())
	cmd.AddCommand(newLLMStatsCmd())
	return cmd
}

func newLLMListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent LLM events",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			purpose, _ := cmd.Flags().GetString("purpose")
			since, _ := cmd.Flags().GetDuration("since")

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			opts := store.QueryOpts{Limit: limit, Purpose: purpose}
			if since > 0 {
				opts.From = time.Now().Add(-since)
			}
			events, err := e.store.EventRepo().QueryLLMEvents(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}

			w := e.out
			if len(events) == 0 {
				fmt.Fprintln(w, "No LLM events found.")
				return nil
			}

			fmt.Fprintf(w, "%-5s  %-19s  %-12s  %-28s  %-6s  %-6s  %-7s  %s\n",
				"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
			fmt.Fprintln(w, strings.Repeat("─", 100))

			for _, ev := range events {
				ok := e.styles.Good.Render("✓")
				if !ev.Success {
					ok = e.styles.Poor.Render("✗")
				}
				fmt.Fprintf(w, "%-5d  %-19s  %-12s  %-28s  %-6d  %-6d  %-7d  %s\n",
					ev.ID,
					ev.Timestamp.Local().Format("2006-01-02 15:04:05"),
					truncate(ev.Purpose, 12),
					truncate(ev.Model, 28),
					ev.InputTokens,
					ev.OutputTokens,
					ev.LatencyMs,
					ok,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	cmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. narrative)")
	cmd.Flags().Duration("since", 0, "Only events newer than this, e.g. 24h")
	return cmd
}

func newLLMViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <id>",
		Short: "View full request/response for an LLM event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid ID %q: %w", args[0], err)
			}

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			ev, err := e.store.EventRepo().GetLLMEvent(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if ev == nil {
				return fmt.Errorf("event %d not found", id)
			}

			w := e.out
			label := e.styles.Label.Render
			fmt.Fprintf(w, "%s %d\n", label("ID:      "), ev.ID)
			fmt.Fprintf(w, "%s %s\n", label("Time:    "), ev.Timestamp.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(w, "%s %s\n", label("Provider:"), ev.Provider)
			fmt.Fprintf(w, "%s %s\n", label("Model:   "), ev.Model)
			fmt.Fprintf(w, "%s %s\n", label("Purpose: "), ev.Purpose)
			fmt.Fprintf(w, "%s %d in / %d out\n", label("Tokens:  "), ev.InputTokens, ev.OutputTokens)
			fmt.Fprintf(w, "%s %dms\n", label("Latency: "), ev.LatencyMs)
			fmt.Fprintf(w, "%s %v\n", label("Success: "), ev.Success)
			if ev.ErrorMessage != "" {
				fmt.Fprintf(w, "%s %s\n", label("Error:   "), e.styles.Poor.Render(ev.ErrorMessage))
			}

			section := func(title, body string) {
				sep := strings.Repeat("─", 60)
				fmt.Fprintln(w, sep)
				fmt.Fprintln(w, e.styles.Heading.Render(title))
				fmt.Fprintln(w, sep)
				if body == "" {
					body = e.styles.Dim.Render("(not captured)")
				}
				fmt.Fprintln(w, body)
			}
			fmt.Fprintln(w)
			section("REQUEST", ev.RequestBody)
			section("RESPONSE", ev.ResponseBody)
			return nil
		},
	}
	return cmd
}

func newLLMStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregated LLM token usage and estimated cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmd.Context()
			events := e.store.EventRepo()
			stats, err := events.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}

			w := e.out
			if len(stats) == 0 {
				fmt.Fprintln(w, "No LLM usage recorded yet.")
				return nil
			}

			rule := strings.Repeat("─", 72)
			fmt.Fprintln(w, e.styles.Heading.Render("Usage by Purpose"))
			fmt.Fprintln(w, rule)
			fmt.Fprintf(w, "%-16s  %6s  %10s  %10s  %10s  %8s\n",
				"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
			fmt.Fprintln(w, rule)

			var totalCalls, totalIn, totalOut int
			for _, st := range stats {
				fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
					st.Purpose, st.Calls, st.InputTokens, st.OutputTokens, st.InputTokens+st.OutputTokens, st.AvgLatencyMs)
				totalCalls += st.Calls
				totalIn += st.InputTokens
				totalOut += st.OutputTokens
			}
			fmt.Fprintln(w, rule)
			fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d\n",
				"TOTAL", totalCalls, totalIn, totalOut, totalIn+totalOut)

			modelUsage, err := events.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}
			if len(modelUsage) == 0 {
				return nil
			}

			fmt.Fprintln(w)
			fmt.Fprintln(w, e.styles.Heading.Render("Estimated Cost (USD)"))
			fmt.Fprintln(w, rule)
			fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n",
				"Model", "Calls", "Input", "Output", "Cost")
			fmt.Fprintln(w, rule)

			var totalCost float64
			var unknownModels []string
			for _, mu := range modelUsage {
				cost := "?"
				if price := llm.LookupCost(mu.Model); price != nil {
					c := price.Cost(mu.InputTokens, mu.OutputTokens)
					totalCost += c
					cost = formatCost(c)
				} else {
					unknownModels = append(unknownModels, mu.Model)
				}
				fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
					truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, cost)
			}

			fmt.Fprintln(w, rule)
			label := "TOTAL"
			if len(unknownModels) > 0 {
				label = "TOTAL (partial)"
			}
			fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(totalCost))
			if len(unknownModels) > 0 {
				fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
			}
			return nil
		},
	}
	return cmd
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
