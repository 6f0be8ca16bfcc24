package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/examprep/cbt/internal/app"
	"github.com/examprep/cbt/internal/exam"
	"github.com/examprep/cbt/internal/prefs"
	"github.com/examprep/cbt/internal/screens/session"
	"github.com/examprep/cbt/internal/ui/components"
	"github.com/examprep/cbt/internal/ui/theme"
)

// runSession runs the answer screen over the machine's active session and
// reports the result once it is submitted.
func runSession(cmd *cobra.Command, a *app.App) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	review, _ := cmd.Flags().GetBool("review")

	screen := session.New(ctx, a.Exam, a.Prefs, a.Assistant, a.Prefs.Settings().TimerEnabled)
	if _, err := runScreen(cmd, screen); err != nil {
		a.Exam.Reset()
		return err
	}
	if err := screen.Err(); err != nil {
		return err
	}
	if screen.Abandoned() {
		fmt.Fprintln(out, "Session abandoned.")
		return nil
	}

	r := screen.Result()
	if r == nil {
		return nil
	}
	if screen.TimedOut() {
		fmt.Fprintln(out, theme.Incorrect.Render("Time is up."))
	}
	report(ctx, out, a, *r)

	if review {
		s := a.Exam.Session()
		for i, q := range s.Questions {
			fmt.Fprintln(out)
			fmt.Fprint(out, components.Question{
				Q: q, Number: i + 1, Total: len(s.Questions),
				Chosen: s.Answers[i], Marked: s.Marked[i], Reveal: true,
			}.View())
		}
	}
	return nil
}

// report prints the result card and leaves a notification for it.
func report(ctx context.Context, out io.Writer, a *app.App, r exam.Result) {
	fmt.Fprintln(out, components.ResultCard{Result: r}.View())

	title := "Practice complete"
	if r.Mode == exam.ModeFull {
		title = "Exam complete"
	}
	if _, err := a.Prefs.Notify(ctx, prefs.Notification{
		Type:    "result",
		Title:   title,
		Message: fmt.Sprintf("%s: %d%% (%d of %d correct)", strings.Join(r.Subjects, ", "), r.OverallScore, r.TotalCorrect, r.TotalQuestions),
	}); err != nil {
		a.Log.Warn("add notification", "err", err)
	}
}
