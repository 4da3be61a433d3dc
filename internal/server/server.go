package server

import (
	"net/http"
	"time"

	"github.com/tandemly/wordpair/internal/game"
)

// Server exposes operational endpoints for the coordinator: liveness and
// a read-only view of active sessions.
type Server struct {
	addr       string
	controller *game.Controller
}

func New(addr string, controller *game.Controller) *Server {
	return &Server{
		addr:       addr,
		controller: controller,
	}
}

// HTTPServer builds the http.Server with sane timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.addr,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
