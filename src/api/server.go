package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tlou-esports/te-suggestions/src/actions/core"
	sharedconfig "github.com/tlou-esports/te-suggestions/src/config"
)

var _ core.Module = (*Server)(nil)

// Server runs the read-only API alongside the bot.
type Server struct {
	cfg     sharedconfig.APIConfig
	handler *gin.Engine
	srv     *http.Server
	addr    net.Addr
}

// NewServer refuses to build an unauthenticated API.
func NewServer(cfg sharedconfig.APIConfig, suggestionSrc SuggestionSource, reminderSrc ReminderSource) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("api: jwt_secret is required when the API is enabled")
	}
	if suggestionSrc == nil {
		return nil, fmt.Errorf("api: suggestion source is required")
	}
	return &Server{cfg: cfg, handler: New(cfg, suggestionSrc, reminderSrc)}, nil
}

func (s *Server) Name() string { return "api" }

// Addr is the bound address once Start has returned.
func (s *Server) Addr() net.Addr { return s.addr }

func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("api: listen %s: %w", s.cfg.Addr, err)
	}
	s.addr = ln.Addr()
	s.srv = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("api: serve: %v", err)
		}
	}()
	log.Printf("api: listening on %s", s.addr)
	return nil
}

func (s *Server) Stop(ctx context.Context) {
	if s.srv == nil {
		return
	}
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutCtx); err != nil {
		log.Printf("api: shutdown: %v", err)
	}
}
