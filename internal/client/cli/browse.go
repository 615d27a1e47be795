package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/certshowcase/internal/client/browse"
)

func (a *App) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the public certification listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := browse.New(cmd.Context(), a.api, a.config.TransitionWindow, a.logger)
			p := tea.NewProgram(m,
				tea.WithContext(cmd.Context()),
				tea.WithInput(a.rawIn),
				tea.WithOutput(a.out),
				tea.WithAltScreen(),
			)
			_, err := p.Run()
			return err
		},
	}
}
