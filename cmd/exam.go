package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/examprep/cbt/internal/catalog"
	"github.com/examprep/cbt/internal/loader"
	"github.com/examprep/cbt/internal/ui/theme"
)

// maxExamSubjects is English plus three others.
const maxExamSubjects = 4

var examCmd = &cobra.Command{
	Use:   "exam <subject>...",
	Short: "Sit a full mock exam",
	Long: `Sit a full mock exam: English Language plus up to three other subjects,
60 English questions and 40 for each other subject. English is added when
not named.`,
	Args: cobra.RangeArgs(1, maxExamSubjects),
	RunE: func(cmd *cobra.Command, args []string) error {
		subjects, err := examSubjects(args)
		if err != nil {
			return err
		}
		minutes, _ := cmd.Flags().GetInt("minutes")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		set, err := a.Loader.LoadExam(cmd.Context(), subjects, func(p loader.Progress) {
			fmt.Fprintln(out, theme.Hint.Render(fmt.Sprintf("[%d/%d] %s: %d questions", p.Loaded, p.Total, p.Subject, p.QuestionCount)))
		})
		if err != nil {
			return err
		}
		for id, ferr := range set.Failures {
			fmt.Fprintln(out, theme.Incorrect.Render(fmt.Sprintf("%s unavailable: %v", id, ferr)))
		}

		a.Exam.StartFullExam(subjects, set.Questions, minutes)
		return runSession(cmd, a)
	},
}

func examSubjects(args []string) ([]catalog.Subject, error) {
	english, _ := catalog.Lookup("english")
	out := []catalog.Subject{english}
	for _, arg := range args {
		s, err := lookupSubject(arg)
		if err != nil {
			return nil, err
		}
		if slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	if len(out) > maxExamSubjects {
		return nil, fmt.Errorf("an exam has English plus at most %d other subjects", maxExamSubjects-1)
	}
	return out, nil
}

func init() {
	examCmd.Flags().Int("minutes", 120, "Time allowed")
	examCmd.Flags().Bool("review", false, "Show every question with its answer after submitting")
}
