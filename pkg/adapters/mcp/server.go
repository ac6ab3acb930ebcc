// Package mcp exposes the wizard as an MCP server, so agent hosts can
// drive configuration sessions through tool calls.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	voltwiz "github.com/voltwiz/voltwiz"
	"github.com/voltwiz/voltwiz/internal/logging"
	"github.com/voltwiz/voltwiz/pkg/domain"
)

// Engine is the wizard surface the MCP adapter drives.
type Engine interface {
	ProcessMessage(ctx context.Context, sessionID, message string) (*domain.TurnResponse, error)
	SessionStatus(ctx context.Context, sessionID string) (*voltwiz.Status, error)
	ClearSession(ctx context.Context, sessionID string) error
	Sessions(ctx context.Context) ([]string, error)
}

// Server wraps an Engine and exposes it as an MCP server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates an MCP server for the engine.
func NewServer(engine Engine, version string, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("voltwiz-mcp", version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE transport.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))
	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{Addr: addr, Handler: mux}
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	configureTool := mcp.NewTool("configure",
		mcp.WithDescription("Send one natural-language configuration message to a wizard session and get the structured turn response."),
		mcp.WithString("session_id", mcp.Description("Session identifier (omit to start a new session)")),
		mcp.WithString("message", mcp.Required(), mcp.Description("The user's message")),
		mcp.WithOutputSchema[domain.TurnResponse](),
	)
	s.mcpServer.AddTool(configureTool, mcp.NewStructuredToolHandler(s.handleConfigure))

	statusTool := mcp.NewTool("session_status",
		mcp.WithDescription("Inspect a session: current step, extracted data, and per-step completeness."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithOutputSchema[voltwiz.Status](),
	)
	s.mcpServer.AddTool(statusTool, mcp.NewStructuredToolHandler(s.handleStatus))

	s.mcpServer.AddTool(mcp.NewTool("clear_session",
		mcp.WithDescription("Discard a session's state; the next message starts fresh."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID := request.GetString("session_id", "")
		if sessionID == "" {
			return mcp.NewToolResultError("session_id is required"), nil
		}
		if err := s.engine.ClearSession(ctx, sessionID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("clear failed: %v", err)), nil
		}
		return mcp.NewToolResultText("session cleared"), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List the IDs of all active sessions."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids, err := s.engine.Sessions(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(ids)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleConfigure(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.TurnResponse, error) {
	message, _ := args["message"].(string)
	if message == "" {
		return domain.TurnResponse{}, fmt.Errorf("message is required")
	}
	sessionID, _ := args["session_id"].(string)

	resp, err := s.engine.ProcessMessage(ctx, sessionID, message)
	if err != nil {
		return domain.TurnResponse{}, fmt.Errorf("processing failed: %w", err)
	}
	return *resp, nil
}

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (voltwiz.Status, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return voltwiz.Status{}, fmt.Errorf("session_id is required")
	}

	status, err := s.engine.SessionStatus(ctx, sessionID)
	if err != nil {
		return voltwiz.Status{}, fmt.Errorf("status failed: %w", err)
	}
	return *status, nil
}
