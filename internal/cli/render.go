package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pageview/pkg/geom"
	"github.com/matzehuels/pageview/pkg/preview"
	"github.com/matzehuels/pageview/pkg/view"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags  docFlags
		output string
		passes int
	)

	cmd := &cobra.Command{
		Use:   "render [document.json]",
		Short: "Render a document to SVG",
		Long: `Render a pre-typeset document to SVG.

The document is a JSON file of pages ({"pages":[{"width","height","content"}]}).
Each pass computes the visible window from the container size and scroll
offset, fetches the fragment covering it, and patches it into the previous
frame. With --passes > 1 the scroll offset advances by one container height
per pass, which shows how pages outside the window are carried over.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			if passes < 1 {
				return fmt.Errorf("passes must be at least 1, got %d", passes)
			}

			doc, closer, err := c.openDocument(cmd.Context(), args[0], cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			if err := doc.SetPage(flags.page); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), doc, renderParams{
				input:  args[0],
				output: output,
				passes: passes,
				scroll: flags.scroll,
				height: cfg.Preview.Height,
				width:  cfg.Preview.Width,
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <input>.svg)")
	cmd.Flags().IntVar(&passes, "passes", 1, "number of render passes")

	return cmd
}

type renderParams struct {
	input  string
	output string
	passes int
	scroll float64
	width  float64
	height float64
}

func (c *CLI) runRender(ctx context.Context, doc *preview.Document, p renderParams) error {
	prog := newProgress(c.Logger)

	var f preview.Frame
	for i := 0; i < p.passes; i++ {
		doc.Scroll(view.Rect{Top: -(p.scroll + float64(i)*p.height), Width: p.width, Height: p.height})
		var err error
		if f, err = doc.Render(ctx); err != nil {
			return fmt.Errorf("render pass %d: %w", i+1, err)
		}
		c.Logger.Debug("pass", "n", i+1, "window", f.Window, "canvas", f.CanvasPages)
	}
	doc.WaitCanvas()
	prog.done(fmt.Sprintf("Rendered %d pages", f.PageCount))

	out := p.output
	if out == "" {
		out = strings.TrimSuffix(p.input, filepath.Ext(p.input)) + ".svg"
	}
	if err := os.WriteFile(out, []byte(doc.SVG()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	printSuccess("Rendered %s", p.input)
	printFrame(f)
	printFile(out)
	return nil
}

// formatWindow renders a window for display.
func formatWindow(w geom.Window) string {
	if w.IsFullPlane() {
		return "full"
	}
	return w.String()
}
