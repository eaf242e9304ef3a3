// Package httpapi is the thin HTTP surface over the inbox service. Handlers
// decode the wire format and map errors to statuses; all state lives behind
// the service.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/voxdrop/voxdrop/internal/inbox"
	"github.com/voxdrop/voxdrop/internal/logging"
)

type Server struct {
	address string
	inbox   *inbox.Service
	uploads *UploadHandler
	logger  logging.Logger
}

func NewServer(address string, l logging.Logger, svc *inbox.Service, uploads *UploadHandler) *Server {
	return &Server{
		address: address,
		inbox:   svc,
		uploads: uploads,
		logger:  l.With("module", "http_server"),
	}
}

// Handler builds the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.HandleFunc("GET /api/inbox", s.authenticate(s.handleInbox))
	mux.HandleFunc("POST /api/receive/{username}", s.handleReceive)
	mux.HandleFunc("GET /api/check/{username}", s.handleCheckAvailable)

	return mux
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
