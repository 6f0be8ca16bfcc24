package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/examprep/cbt/internal/library"
	"github.com/examprep/cbt/internal/ui/theme"
)

var novelCmd = &cobra.Command{
	Use:   "novel",
	Short: "Manage literature set texts and their study notes",
}

var novelImportCmd = &cobra.Command{
	Use:   "import <file.pdf>",
	Short: "Import a set text from a PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		author, _ := cmd.Flags().GetString("author")
		year, _ := cmd.Flags().GetString("year")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.Library.ImportPDF(cmd.Context(), args[0], library.Novel{
			Title:  title,
			Author: author,
			Year:   year,
		})
		if err != nil {
			return fmt.Errorf("import %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %q as %s (%d pages).\n", n.Title, n.ID, n.Pages)
		return nil
	},
}

var novelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the set texts in the library",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		novels, err := a.Library.List(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, n := range novels {
			fmt.Fprintf(out, "%-32s  %s", n.ID, n.Title)
			if n.Author != "" {
				fmt.Fprintf(out, " by %s", n.Author)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

var novelShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a set text's notes and any stored analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		n, err := a.Library.Get(ctx, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.Title.Render(n.Title))
		if n.Author != "" {
			fmt.Fprintln(out, theme.Subtitle.Render("by "+n.Author))
		}
		if n.Description != "" {
			fmt.Fprintln(out, n.Description)
		}
		if n.Summary != "" {
			fmt.Fprintf(out, "\n%s\n%s\n", theme.Subtitle.Render("Summary"), n.Summary)
		}
		if len(n.Chapters) > 0 {
			fmt.Fprintf(out, "\n%s\n", theme.Subtitle.Render("Chapters"))
			for _, c := range n.Chapters {
				fmt.Fprintf(out, "  %2d. %s: %s\n", c.Number, c.Title, c.Summary)
			}
		}
		if len(n.Characters) > 0 {
			fmt.Fprintf(out, "\n%s\n", theme.Subtitle.Render("Characters"))
			for _, c := range n.Characters {
				name := c.Name
				if c.Role != "" {
					name += " (" + c.Role + ")"
				}
				fmt.Fprintf(out, "  %s: %s\n", name, c.Description)
			}
		}
		if len(n.Themes) > 0 {
			fmt.Fprintf(out, "\n%s\n", theme.Subtitle.Render("Themes"))
			for _, t := range n.Themes {
				fmt.Fprintf(out, "  %s: %s\n", t.Title, t.Description)
			}
		}
		for i, d := range n.Devices {
			if i == 0 {
				fmt.Fprintf(out, "\n%s\n", theme.Subtitle.Render("Literary devices"))
			}
			fmt.Fprintf(out, "  %s: %s\n", d.Name, d.Examples)
		}

		an, err := a.Library.Analysis(ctx, n.ID)
		if err != nil {
			return err
		}
		if an == nil {
			fmt.Fprintln(out, theme.Hint.Render("\nNo analysis yet. Run 'cbt novel analyze "+n.ID+"'."))
			return nil
		}
		printAnalysis(out, an)
		return nil
	},
}

var novelAnalyzeCmd = &cobra.Command{
	Use:   "analyze <id>",
	Short: "Generate an exam-focused analysis of a set text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		n, err := a.Library.Get(ctx, args[0])
		if errors.Is(err, library.ErrNotFound) {
			return fmt.Errorf("no novel %q; see 'cbt novel list'", args[0])
		}
		if err != nil {
			return err
		}

		an := a.Assistant.GenerateNovelAnalysis(ctx, n)
		if an == nil {
			if a.AIError != nil {
				return aiError(a.AIError)
			}
			return errors.New("the analysis could not be generated; try again later")
		}
		printAnalysis(cmd.OutOrStdout(), an)
		return nil
	},
}

var novelCardsCmd = &cobra.Command{
	Use:   "cards <id>",
	Short: "Add flashcards built from a set text's notes to the deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		n, err := a.Library.Get(ctx, args[0])
		if errors.Is(err, library.ErrNotFound) {
			return fmt.Errorf("no novel %q; see 'cbt novel list'", args[0])
		}
		if err != nil {
			return err
		}
		cards := library.StudyCards(n)
		if len(cards) == 0 {
			return fmt.Errorf("%s has no study notes to build cards from; try 'cbt novel analyze %s'", n.Title, n.ID)
		}
		added, err := a.Deck.AddMissing(ctx, cards)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d of %d cards for %s.\n", added, len(cards), n.Title)
		return nil
	},
}

func printAnalysis(out io.Writer, an *library.Analysis) {
	fmt.Fprintf(out, "\n%s\n%s\n", theme.Subtitle.Render("Analysis"), an.Summary)
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(out, "\n%s\n", theme.Subtitle.Render(title))
		for _, it := range items {
			fmt.Fprintf(out, "  • %s\n", it)
		}
	}
	section("Themes", an.Themes)
	chars := make([]string, 0, len(an.Characters))
	for _, c := range an.Characters {
		chars = append(chars, strings.TrimSpace(c.Name+": "+c.Description))
	}
	section("Characters", chars)
	section("Literary devices", an.LiteraryDevices)
	section("Likely questions", an.LikelyQuestions)
}

func init() {
	novelImportCmd.Flags().String("title", "", "Title (defaults to the file name)")
	novelImportCmd.Flags().String("author", "", "Author")
	novelImportCmd.Flags().String("year", "", "Year of publication")

	novelCmd.AddCommand(novelImportCmd)
	novelCmd.AddCommand(novelListCmd)
	novelCmd.AddCommand(novelShowCmd)
	novelCmd.AddCommand(novelAnalyzeCmd)
	novelCmd.AddCommand(novelCardsCmd)
}
