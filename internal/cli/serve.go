package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pageview/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags docFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve [document.json]",
		Short: "Serve a live preview over HTTP",
		Long: `Serve a live preview of a document over HTTP.

Endpoints:
  GET    /render         run a render pass and return the SVG (?wait=1 waits for canvas pages)
  GET    /state          current render state as JSON
  POST   /scroll         {"left","top"} scroll offset in pixels
  POST   /resize         {"width","height"} container size
  POST   /zoom           {"ratio"}
  POST   /page/{n}       select slide n
  POST   /mode/{mode}    doc or slide
  POST   /cursor         {"page","x","y"}; DELETE removes it
  GET    /health`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			doc, closer, err := c.openDocument(cmd.Context(), args[0], cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			srv := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      server.New(doc, c.Logger),
				ReadTimeout:  cfg.Server.ReadTimeout.Duration,
				WriteTimeout: cfg.Server.WriteTimeout.Duration,
			}
			return c.runServer(cmd.Context(), srv)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")

	return cmd
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
func (c *CLI) runServer(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	printSuccess("Serving preview")
	printKeyValue("Address", StyleLink.Render(fmt.Sprintf("http://%s/render", srv.Addr)))
	printNextStep("Stop with", "ctrl+c")

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		printError("Server stopped: %v", err)
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
