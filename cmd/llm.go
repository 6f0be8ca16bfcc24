package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/examprep/cbt/internal/llm"
	"github.com/examprep/cbt/internal/store"
	"github.com/examprep/cbt/internal/ui/theme"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect AI assistant requests and usage",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent assistant requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query requests: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No assistant requests recorded.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-16s  %-10s  %-28s  %6s  %6s  %6s\n",
			"ID", "Time", "Purpose", "Model", "In", "Out", "Ms")
		rule(out, 96)
		for _, e := range events {
			line := fmt.Sprintf("%-5d  %-16s  %-10s  %-28s  %6d  %6d  %6d",
				e.ID, e.Timestamp.Local().Format("2006-01-02 15:04"), e.Purpose,
				truncate(e.Model, 28), e.InputTokens, e.OutputTokens, e.LatencyMs)
			if !e.Success {
				line = theme.Incorrect.Render(line)
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full prompt and reply of one request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get request: %w", err)
		}
		if e == nil {
			return fmt.Errorf("request %d not found", id)
		}

		out := cmd.OutOrStdout()
		fields := [][2]string{
			{"Time", e.Timestamp.Local().Format("2006-01-02 15:04:05")},
			{"Provider", e.Provider},
			{"Model", e.Model},
			{"Purpose", e.Purpose},
			{"Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)},
			{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
		}
		if e.ErrorMessage != "" {
			fields = append(fields, [2]string{"Error", theme.Incorrect.Render(e.ErrorMessage)})
		}
		for _, f := range fields {
			fmt.Fprintf(out, "%-9s %s\n", f[0]+":", f[1])
		}
		section(out, "Request", e.RequestBody)
		section(out, "Reply", e.ResponseBody)
		return nil
	},
}

func section(out io.Writer, title, body string) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, theme.Subtitle.Render(title))
	rule(out, 60)
	if body == "" {
		body = theme.Hint.Render("(not captured)")
	}
	fmt.Fprintln(out, body)
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage by purpose and estimated cost by model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.EventRepo()
		byPurpose, err := repo.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(byPurpose) == 0 {
			fmt.Fprintln(out, "No assistant usage recorded yet.")
			return nil
		}

		fmt.Fprintln(out, theme.Subtitle.Render("Usage by purpose"))
		fmt.Fprintf(out, "%-12s  %6s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Avg ms")
		rule(out, 54)
		var calls, in, outTok int
		for _, u := range byPurpose {
			fmt.Fprintf(out, "%-12s  %6d  %10d  %10d  %8d\n",
				u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
			calls += u.Calls
			in += u.InputTokens
			outTok += u.OutputTokens
		}
		rule(out, 54)
		fmt.Fprintf(out, "%-12s  %6d  %10d  %10d\n", "total", calls, in, outTok)

		byModel, err := repo.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(byModel) == 0 {
			return nil
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, theme.Subtitle.Render("Estimated cost (USD)"))
		fmt.Fprintf(out, "%-32s  %6s  %10s\n", "Model", "Calls", "Cost")
		rule(out, 52)
		var total float64
		var unpriced []string
		for _, m := range byModel {
			price := llm.LookupCost(m.Model)
			if price == nil {
				unpriced = append(unpriced, m.Model)
				fmt.Fprintf(out, "%-32s  %6d  %10s\n", truncate(m.Model, 32), m.Calls, "?")
				continue
			}
			c := price.Cost(m.InputTokens, m.OutputTokens)
			total += c
			fmt.Fprintf(out, "%-32s  %6d  %10s\n", truncate(m.Model, 32), m.Calls, formatCost(c))
		}
		rule(out, 52)
		fmt.Fprintf(out, "%-32s  %6s  %10s\n", "total", "", formatCost(total))
		if len(unpriced) > 0 {
			fmt.Fprintln(out, theme.Hint.Render("No pricing for "+strings.Join(unpriced, ", ")+"; the total leaves them out."))
		}
		return nil
	},
}

func rule(out io.Writer, n int) {
	fmt.Fprintln(out, strings.Repeat("─", n))
}

// openStore opens the database without the rest of the app.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(cmd.Context(), dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose: chat, image, flashcards or novel")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
