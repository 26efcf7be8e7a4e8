package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// viewCommand creates the interactive terminal previewer.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		flags docFlags
		step  float64
	)

	cmd := &cobra.Command{
		Use:   "view [document.json]",
		Short: "Preview a document interactively in the terminal",
		Long: `Preview a document interactively in the terminal.

Scroll, zoom, and page through the document and watch which pages each
render pass refreshes, carries over, or hands to the canvas.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}

			doc, closer, err := c.openDocument(cmd.Context(), args[0], cfg)
			if err != nil {
				return err
			}
			defer closer.Close()
			if err := doc.SetPage(flags.page); err != nil {
				return err
			}

			// Debug output would corrupt the alternate screen.
			c.SetLogLevel(log.ErrorLevel)
			p := tea.NewProgram(NewPreviewModel(cmd.Context(), doc, step), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&step, "step", 120, "scroll distance per key press in pixels")

	return cmd
}
