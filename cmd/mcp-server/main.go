// Command mcp-server is a standalone HTTP MCP server for expressivo.
//
// Exposes expressivo tools as an HTTP endpoint for AI agent frameworks.
//
// Usage:
//
//	go run ./cmd/mcp-server --port 8080
//
// Tool call endpoint: POST /tool
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
// Metrics endpoint:   GET  /metrics
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// Set via -ldflags at build time.
var version = "dev"

var log = commonlog.GetLogger("expressivo.mcp")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose int

	rootCmd := &cobra.Command{
		Use:          "mcp-server",
		Short:        "HTTP tool server for expressivo",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			commonlog.Configure(verbose, nil)
			return serve(cmd)
		},
	}
	rootCmd.Flags().Int("port", 0, "HTTP server port (default 8080, env PORT)")
	rootCmd.Flags().String("host", "", "Bind address (default 127.0.0.1, env HOST)")
	rootCmd.Flags().CountVarP(&verbose, "verbose", "v", "verbosity (repeat for more)")
	return rootCmd
}

func serve(cmd *cobra.Command) error {
	port := envOrDefault("PORT", "8080")
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		port = fmt.Sprintf("%d", v)
	}
	host := envOrDefault("HOST", "127.0.0.1")
	if v, _ := cmd.Flags().GetString("host"); v != "" {
		host = v
	}
	addr := fmt.Sprintf("%s:%s", host, port)

	srv := newServer(newMetrics())

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			log.Errorf("error during shutdown: %v", err)
		}
	}()

	log.Noticef("expressivo MCP server listening on %s", addr)
	log.Info("  POST /tool    execute a tool call")
	log.Info("  GET  /schema  tool schema for agent registration")
	log.Info("  GET  /health  health check")
	log.Info("  GET  /metrics prometheus metrics")
	return srv.Listen(addr)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
