package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"notesapp/internal/auth"
	mcpserver "notesapp/internal/mcp"
	"notesapp/internal/middleware"
	"notesapp/internal/notes"
	"notesapp/internal/respond"
	"notesapp/internal/users"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	Users      users.Store
	Notes      notes.Store
	Tokens     *auth.TokenService
	HashCost   int
	CORSOrigin string
	// Ping reports whether the backing store is reachable. Nil means always healthy.
	Ping   func(ctx context.Context) error
	Logger *slog.Logger
}

type Server struct {
	usersH *users.Handler
	notesH *notes.Handler
	mcpH   http.Handler
	tokens *auth.TokenService
	cors   string
	ping   func(ctx context.Context) error
	logger *slog.Logger
}

func New(d Deps) (*Server, error) {
	userSvc, err := users.NewService(d.Users, d.Tokens, d.HashCost)
	if err != nil {
		return nil, fmt.Errorf("user service: %w", err)
	}
	noteSvc := notes.NewService(d.Notes)

	return &Server{
		usersH: users.NewHandler(userSvc, d.Logger.With("component", "users")),
		notesH: notes.NewHandler(noteSvc, d.Logger.With("component", "notes")),
		mcpH:   server.NewStreamableHTTPServer(mcpserver.NewServer(noteSvc)),
		tokens: d.Tokens,
		cors:   d.CORSOrigin,
		ping:   d.Ping,
		logger: d.Logger,
	}, nil
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes
	outerMux.HandleFunc("GET /{$}", s.rootHandler)
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("POST /create-account", s.usersH.CreateAccount)
	outerMux.HandleFunc("POST /login", s.usersH.Login)

	// Protected routes, each wrapped with RequireAuth so unknown paths
	// still fall through to 404
	authMiddleware := auth.RequireAuth(s.tokens, s.logger.With("component", "auth"))
	s.registerProtectedRoutes(outerMux, authMiddleware)

	handler := middleware.CORS(s.cors)(outerMux)
	return middleware.RequestLogger(s.logger.With("component", "http"))(handler)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, protect(h))
	}

	handle("GET /get-user", s.usersH.GetUser)

	// Notes
	handle("POST /add-note", s.notesH.AddNote)
	handle("PUT /edit-note/{noteId}", s.notesH.EditNote)
	handle("GET /get-all-notes", s.notesH.ListNotes)
	handle("GET /search-notes", s.notesH.SearchNotes)
	handle("DELETE /delete-note/{noteId}", s.notesH.DeleteNote)
	handle("PUT /update-note-pinned/{noteId}", s.notesH.UpdatePinned)
	handle("GET /view-note/{noteId}", s.notesH.ViewNote)

	// MCP endpoint (HTTP transport)
	// MCP uses POST for requests and GET for SSE streams
	mcpH := protect(s.mcpH)
	mux.Handle("POST /mcp", mcpH)
	mux.Handle("GET /mcp", mcpH)
	mux.Handle("DELETE /mcp", mcpH)
}

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, map[string]string{"data": "Hello World"}, http.StatusOK)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ping(ctx); err != nil {
			s.logger.WarnContext(r.Context(), "health check failed", "error", err)
			respond.JSON(w, map[string]string{"status": "unavailable"}, http.StatusServiceUnavailable)
			return
		}
	}
	respond.JSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
