// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package mcpserver exposes the tool registry over the Model Context Protocol.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"toolbelt/internal/tools"
)

// Name is the server name announced during initialization.
const Name = "toolbelt"

// Server registers every registry tool on an MCP server. Each call answers
// with a single text content holding the tool's result envelope.
type Server struct {
	mcp      *server.MCPServer
	registry *tools.Registry
	logger   zerolog.Logger
	names    []string
}

// New builds the MCP server and registers all tools of registry.
func New(registry *tools.Registry, version string, logger zerolog.Logger) (*Server, error) {
	s := &Server{
		mcp: server.NewMCPServer(
			Name,
			version,
			server.WithToolCapabilities(true),
			server.WithRecovery(),
		),
		registry: registry,
		logger:   logger.With().Str("component", "mcp").Logger(),
	}

	for _, name := range registry.GetToolNames() {
		tool, _ := registry.GetTool(name)
		schema, err := json.Marshal(tool.Parameters())
		if err != nil {
			return nil, fmt.Errorf("schema for %s: %w", name, err)
		}
		s.mcp.AddTool(mcp.NewToolWithRawSchema(name, tool.Description(), schema), s.handler(name))
		s.names = append(s.names, name)
	}
	s.logger.Debug().Strs("tools", s.names).Msg("Registered MCP tools")
	return s, nil
}

// ToolNames returns the registered tool names in registration order.
func (s *Server) ToolNames() []string {
	return append([]string(nil), s.names...)
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves requests on stdin/stdout until the input is closed.
func (s *Server) ServeStdio() error {
	s.logger.Info().Int("tools", len(s.names)).Msg("Serving MCP on stdio")
	return server.ServeStdio(s.mcp)
}

func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := s.registry.Execute(ctx, name, req.GetArguments())
		if !result.Success {
			return mcp.NewToolResultError(result.Result), nil
		}
		return mcp.NewToolResultText(result.Result), nil
	}
}
