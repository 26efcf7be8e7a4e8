package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pageview/pkg/preview"
	"github.com/matzehuels/pageview/pkg/render/nodelink"
)

// Diagram output formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		flags    docFlags
		format   string
		output   string
		detailed bool
		depth    int
	)

	cmd := &cobra.Command{
		Use:   "tree [document.json]",
		Short: "Draw the rendered document tree as a node-link diagram",
		Long: `Render a document once and draw the resulting element tree.

Pages backed by the canvas are dashed and placeholder pages are greyed out.
The DOT source is written as is; SVG output runs Graphviz in-process.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatDOT && format != formatSVG {
				return fmt.Errorf("unknown format %q (want %s or %s)", format, formatDOT, formatSVG)
			}
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

			out := output
			if out == "" {
				out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".tree." + format
			}
			return c.runTree(cmd.Context(), doc, out, format, nodelink.Options{Detailed: detailed, Depth: depth})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: dot or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <input>.tree.<format>)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include page geometry and transforms in labels")
	cmd.Flags().IntVar(&depth, "depth", 0, "maximum depth below the document root (0 = unlimited)")

	return cmd
}

func (c *CLI) runTree(ctx context.Context, doc *preview.Document, out, format string, opts nodelink.Options) error {
	if _, err := doc.Render(ctx); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	doc.WaitCanvas()

	root := doc.Tree().FirstElement()
	if root == nil {
		return fmt.Errorf("document produced no tree")
	}
	dot := nodelink.ToDOT(root, opts)
	c.Logger.Debug("tree", "pages", len(pageRows(root)), "bytes", len(dot))

	data := []byte(dot)
	if format == formatSVG {
		prog := newProgress(c.Logger)
		svg, err := nodelink.RenderSVG(ctx, dot)
		if err != nil {
			return err
		}
		prog.done("Laid out diagram")
		data = svg
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	printSuccess("Tree diagram generated")
	printFile(out)
	return nil
}
