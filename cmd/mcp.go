package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/huangsam/feedstore/internal/contract"
	"github.com/huangsam/feedstore/internal/mcp"
	"github.com/huangsam/feedstore/internal/metrics"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the feed store MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents read, replace and delete the cached feed.

Tools: retrieve_feed, insert_feed, delete_feed

With --metrics-addr, Prometheus metrics are served on /metrics while the server runs.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if cfg.MetricsAddr != "" {
			srv := startMetricsServer(cfg.MetricsAddr)
			defer func() {
				ctx, cancel := context.WithTimeout(rootCtx, 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(ctx)
			}()
		}
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}

// startMetricsServer serves /metrics on addr in the background.
// Errors go to stderr since stdout carries the MCP protocol.
func startMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			contract.LogWarn("Metrics server stopped", err)
		}
	}()
	return srv
}
