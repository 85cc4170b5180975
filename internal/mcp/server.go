// Package mcp exposes diffgate scans as Model Context Protocol tools so an
// assistant can check a patch before proposing it.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/varalys/diffgate/internal/engine"
	"github.com/varalys/diffgate/internal/logging"
)

// NewServer creates an MCP server with every diffgate tool registered.
// base carries the rule selection and policy resolved from config; each tool
// call copies it and fills in its own input.
func NewServer(version string, base engine.Config, log *zap.Logger) *server.MCPServer {
	if log == nil {
		log = logging.Nop()
	}
	s := server.NewMCPServer(
		"diffgate",
		version,
		server.WithToolCapabilities(true),
	)
	registerTools(s, base, log)
	return s
}

// ServeStdio blocks serving s over stdin/stdout.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
