package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/examprep/cbt/internal/exam"
	"github.com/examprep/cbt/internal/ui/components"
	"github.com/examprep/cbt/internal/ui/theme"
)

var historyCmd = &cobra.Command{
	Use:   "history [n]",
	Short: "Show past practice and exam results",
	Long: `Without an argument, lists recent results. With a position from the list,
shows that result in full.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		m := exam.Mode(mode)
		if m != exam.ModePractice && m != exam.ModeFull {
			return fmt.Errorf("unknown mode %q (want practice or full)", mode)
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		results := a.Prefs.History(m)
		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintf(out, "No %s results yet.\n", m)
			return nil
		}

		if len(args) == 1 {
			i, err := parseIndex(args[0], len(results))
			if err != nil {
				return err
			}
			fmt.Fprintln(out, components.ResultCard{Result: results[i]}.View())
			return nil
		}

		fmt.Fprintf(out, "%3s  %-16s  %-40s  %6s  %8s\n", "#", "Date", "Subjects", "Score", "Time")
		fmt.Fprintln(out, strings.Repeat("─", 82))
		for i, r := range results {
			fmt.Fprintf(out, "%3d  %-16s  %-40s  %6s  %8s\n",
				i+1,
				r.Date.Local().Format("2006-01-02 15:04"),
				truncate(strings.Join(r.Subjects, ", "), 40),
				theme.ScoreStyle(r.OverallScore).Render(fmt.Sprintf("%d%%", r.OverallScore)),
				components.FormatDuration(r.Duration))
		}
		return nil
	},
}

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "List bookmarked questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		marks := a.Prefs.Bookmarks()
		out := cmd.OutOrStdout()
		if len(marks) == 0 {
			fmt.Fprintln(out, "No bookmarks. Press * during a session to bookmark a question.")
			return nil
		}
		for i, b := range marks {
			q := b.Question
			when := time.UnixMilli(b.BookmarkedAt).Local().Format("Jan 2")
			fmt.Fprintf(out, "%s %s\n", theme.Subtitle.Render(fmt.Sprintf("%d. [%s %s]", i+1, q.Subject, when)), q.Text)
			if ans := q.Options[q.Answer]; ans != "" {
				fmt.Fprintf(out, "   %s\n", theme.Correct.Render(strings.ToUpper(q.Answer)+". "+ans))
			}
		}
		return nil
	},
}

var bookmarksRemoveCmd = &cobra.Command{
	Use:   "remove <n>",
	Short: "Remove a bookmark by its position in the list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		marks := a.Prefs.Bookmarks()
		i, err := parseIndex(args[0], len(marks))
		if err != nil {
			return err
		}
		return a.Prefs.RemoveBookmark(cmd.Context(), marks[i].Question.ID)
	},
}

func init() {
	historyCmd.Flags().String("mode", string(exam.ModePractice), "Which results to show: practice or full")
	bookmarksCmd.AddCommand(bookmarksRemoveCmd)
}
