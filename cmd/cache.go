package cmd

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/examprep/cbt/internal/catalog"
	"github.com/examprep/cbt/internal/ui/theme"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the offline cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show what is available offline",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		st, err := a.Loader.Stats(ctx)
		if err != nil {
			return err
		}
		analyses, err := a.Library.Analyses(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Questions:   %d\n", st.Questions)
		fmt.Fprintf(out, "Subjects:    %s\n", listOrNone(st.Subjects))
		fmt.Fprintf(out, "Years:       %s\n", listOrNone(st.Years))
		fmt.Fprintf(out, "Flashcards:  %d\n", st.Flashcards)
		fmt.Fprintf(out, "Analyses:    %d\n", analyses)
		if a.Network.Online(ctx) {
			fmt.Fprintln(out, theme.Correct.Render("Network:     online"))
		} else {
			fmt.Fprintln(out, theme.Incorrect.Render("Network:     offline"))
		}
		return nil
	},
}

func listOrNone(xs []string) string {
	if len(xs) == 0 {
		return "none"
	}
	return strings.Join(xs, ", ")
}

var cacheWarmCmd = &cobra.Command{
	Use:   "warm <subject>...",
	Short: "Download questions now so they are available offline",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subjects := make([]catalog.Subject, 0, len(args))
		for _, arg := range args {
			s, err := lookupSubject(arg)
			if err != nil {
				return err
			}
			subjects = append(subjects, s)
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if !a.Network.Online(ctx) {
			return errors.New("no network connection; nothing can be downloaded")
		}

		out := cmd.OutOrStdout()
		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(3)
		for _, s := range subjects {
			g.Go(func() error {
				qs, err := a.Loader.LoadPractice(gctx, s.ID, catalog.QuestionCount(s.ID), 0)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					fmt.Fprintf(out, "%-28s %s\n", s.Name, theme.Incorrect.Render(err.Error()))
					return nil
				}
				fmt.Fprintf(out, "%-28s %d questions\n", s.Name, len(qs))
				return nil
			})
		}
		return g.Wait()
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached question, answer and note",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("this deletes all offline data including flashcards and settings; re-run with --yes")
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		a.Loader.ClearMemory()
		if err := a.Store.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Offline cache cleared.")
		return nil
	},
}

func init() {
	cacheClearCmd.Flags().Bool("yes", false, "Confirm deletion")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheWarmCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
