package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server serves the deployed webroot over HTTP: the viewer app, its
// settings.json, and the live player snapshots the tick loop writes.
type Server struct {
	srv *http.Server
	log *zap.Logger
}

func NewServer(addr, webRoot string, log *zap.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(webRoot)))
	return &Server{
		srv: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		log: log,
	}
}

func (s *Server) Addr() string { return s.srv.Addr }

// Serve blocks until Shutdown is called or the listener fails.
func (s *Server) Serve() error {
	s.log.Info("web server listening", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.log.Warn("web server shutdown", zap.Error(err))
	}
}
