package cmd

import (
	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
)

// runScreen runs m as a Bubble Tea program on the command's streams and
// returns the final model.
func runScreen(cmd *cobra.Command, m tea.Model) (tea.Model, error) {
	p := tea.NewProgram(m,
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	return p.Run()
}
