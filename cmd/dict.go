package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/examprep/cbt/internal/dictionary"
	"github.com/examprep/cbt/internal/ui/theme"
)

var dictCmd = &cobra.Command{
	Use:   "dict <word>",
	Short: "Look up an English word",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.Dictionary.Lookup(cmd.Context(), args[0])
		if errors.Is(err, dictionary.ErrWordNotFound) {
			return fmt.Errorf("no definition found for %q", args[0])
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, e := range entries {
			head := e.Word
			if e.Phonetic != "" {
				head += "  " + theme.Hint.Render(e.Phonetic)
			}
			fmt.Fprintln(out, theme.Title.Render(head))
			for _, m := range e.Meanings {
				fmt.Fprintln(out, theme.Subtitle.Render(m.PartOfSpeech))
				for i, d := range m.Definitions {
					fmt.Fprintf(out, "  %d. %s\n", i+1, d.Definition)
					if d.Example != "" {
						fmt.Fprintf(out, "     %s\n", theme.Hint.Render("\""+d.Example+"\""))
					}
				}
				if len(m.Synonyms) > 0 {
					fmt.Fprintf(out, "  synonyms: %v\n", m.Synonyms)
				}
			}
		}
		return nil
	},
}
