// Package server implements the MCP server for the daemon.
package server

import (
	"context"
	"io"

	"github.com/mark3labs/mcp-go/server"

	"github.com/toodo-app/toodo/internal/buildinfo"
	"github.com/toodo-app/toodo/internal/daemon/todo"
	"github.com/toodo-app/toodo/internal/log"
)

// ServerName is the name announced to MCP clients.
const ServerName = "toodo"

// Server is the daemon's MCP server.
type Server struct {
	mcpServer *server.MCPServer
	tools     *todoTools
}

// New creates the MCP server with every todo tool registered.
func New(manager *todo.Manager) *Server {
	s := server.NewMCPServer(
		ServerName,
		buildinfo.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions),
	)

	tools := newTodoTools(manager)
	tools.register(s)

	return &Server{
		mcpServer: s,
		tools:     tools,
	}
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Serve speaks MCP over the given streams until ctx is cancelled or in
// reaches EOF.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(log.StdErrorLogger("mcp"))

	log.Info().Str("version", buildinfo.Version).Msg("serving MCP over stdio")
	return stdio.Listen(ctx, in, out)
}

const serverInstructions = `toodo keeps short-lived todo lists for you.

Create a todo with create_todo, then track progress with add_step,
complete_step and delete_step. Steps are addressed by their 0-based index as
shown by read_todo; deleting a step shifts the later ones down by one.
Todos expire after a while (one hour by default) and disappear on their own.`
