package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/examprep/cbt/internal/prefs"
	"github.com/examprep/cbt/internal/ui/theme"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		printSettings(cmd.OutOrStdout(), a.Prefs.Settings())
		return nil
	},
}

func printSettings(out io.Writer, s prefs.Settings) {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	rows := [][2]string{
		{"theme", s.Theme},
		{"font_size", s.FontSize},
		{"timer_enabled", onOff(s.TimerEnabled)},
		{"sound_enabled", onOff(s.SoundEnabled)},
		{"vibration_enabled", onOff(s.VibrationEnabled)},
		{"calculator_enabled", onOff(s.CalculatorEnabled)},
	}
	for _, r := range rows {
		fmt.Fprintf(out, "%-20s %s\n", r[0], r[1])
	}
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting, e.g. 'settings set theme light'",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Prefs.Set(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		printSettings(cmd.OutOrStdout(), a.Prefs.Settings())
		return nil
	},
}

var settingsClearCmd = &cobra.Command{
	Use:   "clear-data",
	Short: "Delete history, bookmarks and notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("this deletes all history, bookmarks and notifications; re-run with --yes")
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Prefs.ClearAll(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All data cleared. Settings were kept.")
		return nil
	},
}

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"inbox"},
	Short:   "List notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		list := a.Prefs.Notifications()
		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No notifications.")
			return nil
		}
		fmt.Fprintf(out, "%d unread\n\n", a.Prefs.Unread())
		for _, n := range list {
			title := n.Title
			if !n.Read {
				title = theme.Marked.Render("● " + title)
			}
			fmt.Fprintf(out, "%d  %s  %s\n", n.ID, time.UnixMilli(n.Timestamp).Local().Format("Jan 2 15:04"), title)
			if n.Message != "" {
				fmt.Fprintf(out, "   %s\n", n.Message)
			}
		}
		return nil
	},
}

func notificationAction(use, short string, fn func(p *prefs.Prefs, cmd *cobra.Command, id int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid ID %q: %w", args[0], err)
			}
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return fn(a.Prefs, cmd, id)
		},
	}
}

var notificationsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every notification",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Prefs.ClearNotifications(cmd.Context())
	},
}

func init() {
	settingsClearCmd.Flags().Bool("yes", false, "Confirm deletion")
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsClearCmd)

	notificationsCmd.AddCommand(notificationAction("read", "Mark a notification as read",
		func(p *prefs.Prefs, cmd *cobra.Command, id int64) error {
			return p.MarkRead(cmd.Context(), id)
		}))
	notificationsCmd.AddCommand(notificationAction("remove", "Delete a notification",
		func(p *prefs.Prefs, cmd *cobra.Command, id int64) error {
			return p.RemoveNotification(cmd.Context(), id)
		}))
	notificationsCmd.AddCommand(notificationsClearCmd)
}
