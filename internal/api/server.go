package api

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/axiom-sim/axiom/internal/command"
	"github.com/axiom-sim/axiom/internal/eventbus"
)

// Server wraps the chi router and event-stream hub around a command.Queue
// and eventbus.Bus. Grounded on Server (engine/streamer/
// router/wsHub/rateLimiter/kickHandler), with the game-engine and
// Kick-streaming fields replaced by the two things control
// plane actually owns.
type Server struct {
	queue       *command.Queue
	bus         *eventbus.Bus
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
	httpServer  *http.Server
}

// NewServer builds a Server with production defaults. The hub loops and
// the listener do not start until Start is called, so Router() is safe to
// drive with httptest without a live listener; the IP rate limiter built
// here starts its cleanup goroutine at once (Stop ends it).
func NewServer(queue *command.Queue, bus *eventbus.Bus, corsOrigins []string) *Server {
	rateLimiter := NewIPRateLimiter(DefaultRateLimitConfig)
	wsHub := NewWebSocketHub(bus, NewWebSocketRateLimiter(MaxWSConnectionsPerIP), corsOrigins)

	s := &Server{
		queue:       queue,
		bus:         bus,
		wsHub:       wsHub,
		rateLimiter: rateLimiter,
	}
	s.router = NewRouter(RouterConfig{
		Queue:       queue,
		Bus:         bus,
		WSHub:       wsHub,
		RateLimiter: rateLimiter,
		CORSOrigins: corsOrigins,
	})
	return s
}

// Start runs the hub's background loops and blocks serving addr. It is the
// only method that starts the hub or opens a listener.
func (s *Server) Start(addr string) error {
	go s.wsHub.Run()
	s.wsHub.StartTailLoop()

	s.httpServer = &http.Server{Addr: addr, Handler: s.router}
	log.Printf("api: listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Router returns the HTTP handler for httptest-driven integration tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop gracefully shuts down the HTTP listener and the rate limiter's
// cleanup goroutine.
func (s *Server) Stop(ctx context.Context) error {
	s.rateLimiter.Stop()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
