package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/examprep/cbt/internal/catalog"
	"github.com/examprep/cbt/internal/exam"
	"github.com/examprep/cbt/internal/screens/quiz"
	"github.com/examprep/cbt/internal/ui/components"
	"github.com/examprep/cbt/internal/ui/theme"
)

var practiceCmd = &cobra.Command{
	Use:   "practice <subject>",
	Short: "Practice one subject against the clock",
	Long: `Start a timed practice session for one subject. Questions come from the
question bank when online and from the local cache otherwise. Explanations
are available during practice with "?".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, err := lookupSubject(args[0])
		if err != nil {
			return err
		}
		year, _ := cmd.Flags().GetInt("year")
		count, _ := cmd.Flags().GetInt("count")
		minutes, _ := cmd.Flags().GetInt("minutes")
		if minutes == 0 {
			minutes = count
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.Hint.Render(fmt.Sprintf("Loading %d %s questions...", count, subject.Name)))
		qs, err := a.Loader.LoadPractice(cmd.Context(), subject.ID, count, year)
		if err != nil {
			qs = a.Loader.CachedForSubject(cmd.Context(), subject.ID)
			if len(qs) == 0 {
				return fmt.Errorf("load questions: %w", err)
			}
			fmt.Fprintln(out, theme.Hint.Render("Offline: practising from every cached question for this subject."))
			if len(qs) > count {
				qs = qs[:count]
			}
		}
		if len(qs) < count {
			fmt.Fprintln(out, theme.Hint.Render(fmt.Sprintf("Only %d questions available.", len(qs))))
		}

		a.Exam.StartPractice(subject, year, qs, minutes)
		return runSession(cmd, a)
	},
}

func lookupSubject(name string) (catalog.Subject, error) {
	s, ok := catalog.Lookup(name)
	if !ok {
		return catalog.Subject{}, fmt.Errorf("unknown subject %q (see cbt subjects)", name)
	}
	return s, nil
}

var subjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "List the examinable subjects and what is cached for each",
	RunE: func(cmd *cobra.Command, args []string) error {
		remote, _ := cmd.Flags().GetBool("remote")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		var metrics map[string]any
		if remote && a.Network.Online(ctx) {
			metrics = a.Questions.SubjectMetrics(ctx)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-12s  %-30s  %5s  %6s", "ID", "Name", "Exam", "Cached")
		if metrics != nil {
			fmt.Fprintf(out, "  %s", "Bank")
		}
		fmt.Fprintln(out)
		for _, s := range catalog.All() {
			name := s.Name
			if s.Calculation {
				name += " *"
			}
			cached := len(a.Loader.CachedForSubject(ctx, s.ID))
			fmt.Fprintf(out, "%-12s  %-30s  %5d  %6d", s.ID, name, catalog.QuestionCount(s.ID), cached)
			if metrics != nil {
				if v, ok := metrics[s.ID]; ok {
					fmt.Fprintf(out, "  %v", v)
				}
			}
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, theme.Hint.Render("* calculator allowed"))
		years := catalog.Years()
		fmt.Fprintf(out, "Years: %d to %d\n", years[len(years)-1], years[0])
		return nil
	},
}

var quizCmd = &cobra.Command{
	Use:   "quiz <subject>",
	Short: "Answer a single fresh question from the bank",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, err := lookupSubject(args[0])
		if err != nil {
			return err
		}
		year, _ := cmd.Flags().GetInt("year")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if !a.Network.Online(ctx) {
			return errors.New("quiz needs a network connection; try 'cbt practice' to use cached questions")
		}
		q, err := a.Questions.FetchQuestion(ctx, subject.ID, year)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		sq := exam.SessionQuestion{Question: *q, SubjectID: subject.ID}
		screen := quiz.New(sq)
		if _, err := runScreen(cmd, screen); err != nil {
			return err
		}
		if screen.Chosen() == "" {
			fmt.Fprintln(out, theme.Hint.Render("No answer given."))
		}
		fmt.Fprint(out, components.Question{Q: sq, Number: 1, Total: 1, Chosen: screen.Chosen(), Reveal: true}.View())
		return nil
	},
}

func init() {
	practiceCmd.Flags().Int("year", 0, "Exam year (0 for any year)")
	practiceCmd.Flags().IntP("count", "n", 40, "Number of questions")
	practiceCmd.Flags().Int("minutes", 0, "Time allowed (default: one minute per question)")
	practiceCmd.Flags().Bool("review", false, "Show every question with its answer after submitting")
	subjectsCmd.Flags().Bool("remote", false, "Also show question counts reported by the question bank")
	quizCmd.Flags().Int("year", 0, "Exam year (0 for any year)")
}
