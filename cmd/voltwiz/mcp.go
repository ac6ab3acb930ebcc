package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/spf13/cobra"

	voltwiz "github.com/voltwiz/voltwiz"
	"github.com/voltwiz/voltwiz/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the wizard as an MCP server, so agent hosts can drive
configuration sessions through tool calls.

Supported transports:
- stdio (default): standard input/output, for local process integration.
- sse: Server-Sent Events over HTTP, for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		wiz, logger, cleanup := buildFromFlags(cmd)
		defer cleanup()

		srv := mcp.NewServer(wiz, voltwiz.Version, mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			// Keep logs off stdout so they don't corrupt JSON-RPC.
			log.SetOutput(os.Stderr)
			logger.Info("Starting Voltwiz MCP server (stdio)")
			if err := srv.ServeStdio(); err != nil {
				logger.Error("MCP server execution failed", "err", err)
				os.Exit(1)
			}
		case "sse":
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.ServeSSE(ctx, port); err != nil {
				logger.Error("MCP server execution failed", "err", err)
				os.Exit(1)
			}
		default:
			slog.Error("Unknown transport", "transport", transport)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringP("transport", "t", "stdio", "Transport to use (stdio or sse)")
	mcpCmd.Flags().IntP("port", "p", 8090, "Port for the sse transport")
}
