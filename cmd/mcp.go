package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/movi-app/movi/core/config"
	"github.com/movi-app/movi/ui/mcp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the movie MCP server using SSE",
	Long:  `Start an MCP (Model Context Protocol) server over Server-Sent Events that exposes read-only movie tools to AI agents.`,
	Run:   mcpServer,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("host", "", "Host for the SSE MCP server")
	mcpCmd.Flags().String("mcp-port", "", "Port for the SSE MCP server")
}

func mcpServer(cmd *cobra.Command, _ []string) {
	cfg := config.Global
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.MCP.Host = host
	}
	if port, _ := cmd.Flags().GetString("mcp-port"); port != "" {
		cfg.MCP.Port = port
	}

	deps, err := newApplication(cfg)
	if err != nil {
		logrus.Fatalf("[MCP] failed to initialize: %v", err)
	}

	mcpServer := server.NewMCPServer(
		"Movi MCP Server",
		cfg.App.Version,
		server.WithToolCapabilities(true),
	)

	queryHandler := mcp.InitMcpQuery(deps.movieUsecase)
	queryHandler.AddQueryTools(mcpServer)

	baseURL := fmt.Sprintf("http://%s:%s", cfg.MCP.Host, cfg.MCP.Port)
	sseServer := server.NewSSEServer(
		mcpServer,
		server.WithBaseURL(baseURL),
		server.WithKeepAlive(true),
	)

	addr := fmt.Sprintf("%s:%s", cfg.MCP.Host, cfg.MCP.Port)
	logrus.Printf("Starting movie MCP SSE server on %s", addr)
	logrus.Printf("SSE endpoint: %s/sse", baseURL)
	logrus.Printf("Message endpoint: %s/message", baseURL)

	// Graceful shutdown handler
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("[MCP] Reception of termination signal, shutting down gracefully...")
		deps.Close()
		os.Exit(0)
	}()

	if err := sseServer.Start(addr); err != nil {
		logrus.Fatalf("Failed to start SSE server: %v", err)
	}
}
