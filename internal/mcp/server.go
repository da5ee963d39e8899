// ABOUTME: MCP server setup for sleep analytics.
// ABOUTME: Wraps the MCP server around one explicit analysis session.
package mcp

import (
	"context"

	"github.com/harperreed/sleepdash/internal/session"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Server wraps the MCP server with the session it queries.
type Server struct {
	mcpServer *mcp.Server
	sess      *session.Session
	log       *zap.Logger
}

// NewServer creates a new MCP server over the given session.
func NewServer(sess *session.Session, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "sleepdash",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		sess:      sess,
		log:       log.With(zap.String("component", "mcp")),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("serving MCP over stdio", zap.String("session_id", s.sess.ID))
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
