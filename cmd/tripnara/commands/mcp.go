// ABOUTME: MCP command starts the Model Context Protocol server over stdio
// ABOUTME: Lets LLM agents read trips, drafts and gate statuses through the TripNARA API
package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tripnara/tripnara-go/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs TripNARA as an MCP (Model Context Protocol) server, enabling
LLM agents like Claude to inspect trips, persona views and decision
drafts, check route safety and run on-trip actions via stdio.

The server uses the stored session; run 'tripnara auth login' first.
Logs go to stderr so stdout stays reserved for the protocol.`,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  tripnara mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "tripnara": {
  #       "command": "tripnara",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{metrics: metricsAddr != ""}, func(ctx context.Context, a *app) error {
				return runMCP(ctx, a, metricsAddr)
			})
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. 127.0.0.1:9464")
	return cmd
}

// runMCP serves tools on stdio until the server stops or ctx is canceled.
func runMCP(ctx context.Context, a *app, metricsAddr string) error {
	server := mcpserver.NewMCPServer("TripNARA", versionInfo.Version)
	mcp.RegisterTools(server, a.api, a.cfg.Thresholds(), a.logger.Named("mcp"))

	if metricsAddr != "" {
		stop, err := serveMetrics(a, metricsAddr)
		if err != nil {
			return err
		}
		defer stop()
	}

	a.logger.Info("MCP server starting on stdio", zap.String("api", a.cfg.APIBaseURL))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
		return nil
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}

// serveMetrics exposes the app's collector over HTTP and returns a shutdown func.
func serveMetrics(a *app, addr string) (func(), error) {
	if a.metrics == nil {
		return nil, fmt.Errorf("metrics are not enabled")
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening for metrics: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	a.logger.Info("serving metrics", zap.String("addr", ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
