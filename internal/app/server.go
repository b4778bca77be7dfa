package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reviewflow/differential-mcp/internal/auth"
	"github.com/reviewflow/differential-mcp/internal/config"
)

// StartSSEServer serves the review tools over SSE until the listener fails.
func StartSSEServer(s *mcp.Server, settings *config.Settings) error {
	srv, err := NewSSEServer(s, settings)
	if err != nil {
		return err
	}

	slog.Info("SSE endpoint listening", "addr", srv.Addr, "auth_type", settings.Auth.Type)
	return srv.ListenAndServe()
}

// NewSSEServer builds the HTTP server for the SSE transport: /sse behind the
// configured auth middleware, /health left open for probes.
func NewSSEServer(s *mcp.Server, settings *config.Settings) (*http.Server, error) {
	authMiddleware, err := auth.NewMiddleware(settings.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth middleware: %w", err)
	}

	// Every SSE connection talks to the same review server.
	sseHandler := mcp.NewSSEHandler(func(*http.Request) *mcp.Server { return s }, nil)

	mux := http.NewServeMux()
	mux.Handle("/sse", sseHandler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", settings.Host, settings.Port),
		Handler: authMiddleware(mux),
	}, nil
}
