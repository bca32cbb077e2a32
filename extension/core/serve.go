// serve.go implements "noterev serve", the MCP server over stdio.
//
// Serve opens its own workspace so it can attach metrics. Stdout carries
// JSON-RPC, so operational logs go to stderr.

package core

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/uttaparsa/notes-api/cmd"
	"github.com/uttaparsa/notes-api/extension"
	"github.com/uttaparsa/notes-api/internal/log"
	"github.com/uttaparsa/notes-api/internal/logging"
	"github.com/uttaparsa/notes-api/internal/mcp"
	"github.com/uttaparsa/notes-api/internal/metrics"
	"github.com/uttaparsa/notes-api/internal/workspace"
)

func newServeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Start MCP server",
		Long: `Start an MCP (Model Context Protocol) server over stdio.

  noterev serve                      # stdio only
  noterev serve --metrics :9464      # also expose Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	c.Flags().String(extension.FlagMetrics, "", "Listen address for the Prometheus /metrics endpoint")
	return c
}

func runServe(c *cobra.Command, _ []string) error {
	addr, _ := c.Flags().GetString(extension.FlagMetrics)
	logger := logging.New("serve")

	m, err := metrics.New()
	if err != nil {
		return err
	}

	ws, err := workspace.Open(workspace.Options{Dir: cmd.Dir(), Metrics: m})
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	defer ws.Close()
	log.SetProject(ws.Dir())

	if addr != "" {
		srv := metrics.NewServer(addr, m, logger)
		srv.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Warnw("metrics server shutdown", "error", err)
			}
		}()
	}

	s := mcp.NewServer(ws.Service(), ws.Repo().Catalog, logger)
	return mcp.Serve(s, logger)
}
