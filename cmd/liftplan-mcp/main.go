// liftplan-mcp is a stdio MCP bridge to a running liftplan instance.
// Tools and resources run against the remote REST API, so an assistant
// on a laptop can plan and log workouts on a server elsewhere.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/claude/liftplan/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "base URL of the liftplan server")
	apiKey := flag.String("api-key", os.Getenv("LIFTPLAN_AUTH_API_KEY"), "API key for mutating calls")
	flag.Parse()

	// Logs go to stderr: stdout carries the MCP protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ds := mcp.NewHTTPClient(*serverURL, *apiKey)
	s := mcp.New(ds, Version, log)

	log.Info("liftplan-mcp starting", "server", *serverURL)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
