package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/axiom-sim/axiom/internal/command"
	"github.com/axiom-sim/axiom/internal/eventbus"
)

// RouterConfig carries every dependency NewRouter needs. Grounded on
// fight-club-go's RouterConfig (Engine/Streamer/RateLimiter/CORSOrigins/...): the
// fight-club-specific Engine/StreamerInterface fields are gone since
// internal/api no longer talks to a game engine directly, replaced by the
// one channel external callers are allowed: the command queue, plus
// the event bus the websocket endpoint tails.
type RouterConfig struct {
	// Queue is the command queue every route submits to (required).
	Queue *command.Queue

	// Bus is the event log the /events/stream websocket tails (required).
	Bus *eventbus.Bus

	// WSHub serves /events/stream. If nil, NewRouter builds one but leaves
	// it un-started — the caller (typically a Server) must call Run and
	// StartTailLoop itself; NewRouter starts neither.
	WSHub *WebSocketHub

	// RateLimiter is an optional pre-configured rate limiter. If nil, one
	// is built from RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig configures RateLimiter when RateLimiter is nil.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins overrides the default localhost-only allow-list.
	CORSOrigins []string

	// DisableLogging turns off the chi request logger (used by benchmarks
	// and httptest callers that want quiet output).
	DisableLogging bool
}

// routerHandlers holds the shared state route handlers close over.
type routerHandlers struct {
	queue       *command.Queue
	bus         *eventbus.Bus
	wsHub       *WebSocketHub
	corsOrigins []string
}

// NewRouter constructs the HTTP router. It opens no listener and does not
// start the WebSocket hub, so it's safe to drive with httptest.NewServer
// directly. When cfg.RateLimiter is nil, the IPRateLimiter built here
// starts its own cleanup goroutine.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	// Rate limit before CORS, same as fight-club-go, to reject early and
	// save CPU on the preflight/allow-origin check.
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = AllowedOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	wsHub := cfg.WSHub
	if wsHub == nil {
		wsHub = NewWebSocketHub(cfg.Bus, NewWebSocketRateLimiter(MaxWSConnectionsPerIP), corsOrigins)
	}

	h := &routerHandlers{
		queue:       cfg.Queue,
		bus:         cfg.Bus,
		wsHub:       wsHub,
		corsOrigins: corsOrigins,
	}

	r.Route("/api", func(r chi.Router) {
		// Generic command gateway: every command.Kind in internal/command
		// is reachable through this one route rather than ~70 bespoke
		// handlers, "single typed command channel" made literal
		// at the transport layer.
		r.Post("/command/{kind}", h.handleCommand)

		// Convenience GET routes over the same gateway, for callers that'd
		// rather not build a command.Kind/args pair by hand.
		r.Get("/state", h.handleFixed(command.KindGetState))
		r.Get("/perf", h.handleFixed(command.KindGetPerf))
		r.Get("/perf/history", h.handleFixed(command.KindGetPerfHistory))
		r.Get("/telemetry", h.handleFixed(command.KindGetTelemetry))
		r.Get("/health", h.handleFixed(command.KindHealthCheck))
		r.Get("/events", h.handleGetEvents)
	})

	r.Get("/events/stream", h.wsHub.HandleWebSocket)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"service": "axiom"})
	})

	return r
}

// GetRateLimiterFromRouter mirrors test helper: builds (or
// returns) the limiter a RouterConfig would produce, so tests can assert
// on it without re-deriving NewRouter's defaulting logic.
func GetRateLimiterFromRouter(cfg RouterConfig) *IPRateLimiter {
	if cfg.RateLimiter != nil {
		return cfg.RateLimiter
	}
	rateLimitCfg := DefaultRateLimitConfig
	if cfg.RateLimitConfig != nil {
		rateLimitCfg = *cfg.RateLimitConfig
	}
	return NewIPRateLimiter(rateLimitCfg)
}
