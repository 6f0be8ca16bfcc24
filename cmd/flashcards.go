package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/examprep/cbt/internal/flashcards"
	"github.com/examprep/cbt/internal/screens/review"
	"github.com/examprep/cbt/internal/ui/theme"
)

var flashcardsCmd = &cobra.Command{
	Use:     "flashcards",
	Aliases: []string{"fc"},
	Short:   "Generate and review study flashcards",
}

var flashcardsGenerateCmd = &cobra.Command{
	Use:   "generate <subject> <topic>",
	Short: "Generate flashcards for a topic with the AI assistant",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, err := lookupSubject(args[0])
		if err != nil {
			return err
		}
		topic := strings.Join(args[1:], " ")
		count, _ := cmd.Flags().GetInt("count")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		cards := a.Assistant.GenerateFlashcards(cmd.Context(), subject.ID, topic, count)
		if len(cards) == 0 {
			if a.AIError != nil {
				return aiError(a.AIError)
			}
			return fmt.Errorf("no flashcards could be generated for %q", topic)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Saved %d flashcards for %s / %s.\n", len(cards), subject.Name, topic)
		for i, c := range cards {
			fmt.Fprintf(out, "%2d. %s\n", i+1, c.Front)
		}
		return nil
	},
}

var flashcardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved flashcards, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		topic, _ := cmd.Flags().GetString("topic")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		cards, err := a.Deck.List(cmd.Context(), subject, topic)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(cards) == 0 {
			fmt.Fprintln(out, "No flashcards yet.")
			return nil
		}

		now := time.Now()
		fmt.Fprintf(out, "%-40s  %-12s  %-20s  %7s  %s\n", "ID", "Subject", "Topic", "Reviews", "Status")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for _, c := range cards {
			fmt.Fprintf(out, "%-40s  %-12s  %-20s  %7d  %s\n",
				c.ID, truncate(c.Subject, 12), truncate(c.Topic, 20), c.ReviewCount, cardStatus(c, now))
		}
		return nil
	},
}

func cardStatus(c flashcards.Card, now time.Time) string {
	switch {
	case c.Mastered():
		return theme.Correct.Render("mastered")
	case c.Due(now):
		return theme.Marked.Render("due")
	default:
		return "next " + time.UnixMilli(c.NextReview).Local().Format("Jan 2")
	}
}

var flashcardsReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review the flashcards that are due",
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		cards, err := a.Deck.Due(ctx, subject)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(cards) == 0 {
			fmt.Fprintln(out, "Nothing is due for review.")
			return nil
		}

		screen := review.New(ctx, a.Deck, cards)
		if _, err := runScreen(cmd, screen); err != nil {
			return err
		}
		if err := screen.Err(); err != nil {
			return err
		}
		fmt.Fprintf(out, "Reviewed %d cards, %d known.\n", screen.Reviewed(), screen.Known())
		return nil
	},
}

var flashcardsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a flashcard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Deck.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
		return nil
	},
}

func init() {
	flashcardsGenerateCmd.Flags().IntP("count", "n", 10, "Number of cards to generate")
	flashcardsListCmd.Flags().StringP("subject", "s", "", "Only cards for this subject")
	flashcardsListCmd.Flags().StringP("topic", "t", "", "Only cards for this topic")
	flashcardsReviewCmd.Flags().StringP("subject", "s", "", "Only review cards for this subject")

	flashcardsCmd.AddCommand(flashcardsGenerateCmd)
	flashcardsCmd.AddCommand(flashcardsListCmd)
	flashcardsCmd.AddCommand(flashcardsReviewCmd)
	flashcardsCmd.AddCommand(flashcardsDeleteCmd)
}

// parseIndex reads a 1-based position from s.
func parseIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 || i > n {
		return 0, fmt.Errorf("expected a number between 1 and %d", n)
	}
	return i - 1, nil
}
