// Package telemetry exposes Prometheus metrics and the pprof/metrics debug
// server. Grounded on fight-club-go's internal/api/observability.go: same
// promauto histogram/gauge/counter shapes and the same "debug server binds
// to localhost only" posture, with fight-club's player/particle/render
// metrics replaced by tick, command, script, and event-bus concepts.
package telemetry

import (
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "axiom_tick_duration_seconds",
		Help:    "Time spent executing one fixed simulation step.",
		Buckets: []float64{0.0005, 0.001, 0.002, 0.004, 0.008, 0.016},
	})

	entityCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "axiom_entity_count",
		Help: "Current number of live entities.",
	})

	commandQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "axiom_command_queue_depth",
		Help: "Commands currently buffered in the queue.",
	})

	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "axiom_commands_total",
		Help: "Commands dispatched, by kind.",
	}, []string{"kind"})

	scriptBudgetBreaches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "axiom_script_budget_breaches_total",
		Help: "Script invocations that exceeded their wall-clock budget.",
	}, []string{"scope"}) // scope: "entity" | "global"

	scriptErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "axiom_script_errors_total",
		Help: "Total trapped script runtime errors.",
	})

	eventBusEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "axiom_event_bus_emitted_total",
		Help: "Events accepted onto the bus.",
	})

	eventBusDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "axiom_event_bus_dropped_total",
		Help: "Events dropped by the bus's rate limiter or full buffer.",
	})

	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "axiom_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "axiom_http_requests_total",
		Help: "Total HTTP requests.",
	}, []string{"method", "endpoint", "status"})

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "axiom_websocket_connections_active",
		Help: "Currently active event-stream WebSocket connections.",
	})

	wsMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "axiom_websocket_messages_total",
		Help: "Total WebSocket event-stream messages sent.",
	})

	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "axiom_connection_rejected_total",
		Help: "Connections rejected by rate limiter or origin check.",
	}, []string{"reason"}) // bounded: "rate_limit", "origin", "ws_total_limit", "ws_ip_limit"
)

// Plain atomic counters dual-tracked alongside the promauto metrics above,
// the way internal/api/ratelimit.go tracks allowed/rejected counts outside
// of Prometheus — promauto has no in-process read-back API, and
// GetTelemetry needs one.
var (
	commandDispatchCount uint64
	scriptErrorCount     uint64
	scriptBreachCount    uint64
	eventEmittedCount    uint64
	eventDroppedCount    uint64
	wsMessageCount       uint64
)

// DebugServerConfig configures the pprof/metrics debug server.
type DebugServerConfig struct {
	Enabled    bool
	ListenAddr string // should stay "127.0.0.1:6060" outside explicit opt-in
}

// DefaultDebugServerConfig returns safe defaults.
func DefaultDebugServerConfig() DebugServerConfig {
	return DebugServerConfig{Enabled: true, ListenAddr: "127.0.0.1:6060"}
}

// StartDebugServer starts the pprof + /metrics server. Binds to localhost
// unless AXIOM_ALLOW_DEBUG_EXTERNAL=true, mirroring fight-club-go's own
// ALLOW_DEBUG_EXTERNAL guard.
func StartDebugServer(cfg DebugServerConfig) {
	if !cfg.Enabled {
		return
	}
	if cfg.ListenAddr != "127.0.0.1:6060" && cfg.ListenAddr != "localhost:6060" {
		if os.Getenv("AXIOM_ALLOW_DEBUG_EXTERNAL") != "true" {
			log.Printf("telemetry: forcing debug server to localhost (set AXIOM_ALLOW_DEBUG_EXTERNAL=true to override)")
			cfg.ListenAddr = "127.0.0.1:6060"
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	go func() {
		log.Printf("telemetry: debug server on %s (pprof + /metrics)", cfg.ListenAddr)
		if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
			log.Printf("telemetry: debug server error: %v", err)
		}
	}()
}

// RecordTick records one tick's wall-clock duration.
func RecordTick(d time.Duration) { tickDuration.Observe(d.Seconds()) }

// SetEntityCount updates the live entity gauge.
func SetEntityCount(n int) { entityCount.Set(float64(n)) }

// SetCommandQueueDepth updates the queue depth gauge.
func SetCommandQueueDepth(n int) { commandQueueDepth.Set(float64(n)) }

// RecordCommand increments the per-kind command counter.
func RecordCommand(kind string) {
	commandsTotal.WithLabelValues(kind).Inc()
	atomic.AddUint64(&commandDispatchCount, 1)
}

// RecordScriptBudgetBreach increments the breach counter for scope
// ("entity" or "global").
func RecordScriptBudgetBreach(scope string) {
	scriptBudgetBreaches.WithLabelValues(scope).Inc()
	atomic.AddUint64(&scriptBreachCount, 1)
}

// RecordScriptError increments the trapped-script-error counter.
func RecordScriptError() {
	scriptErrorsTotal.Inc()
	atomic.AddUint64(&scriptErrorCount, 1)
}

// RecordEventEmitted increments the accepted-event counter.
func RecordEventEmitted() {
	eventBusEmitted.Inc()
	atomic.AddUint64(&eventEmittedCount, 1)
}

// RecordEventDropped increments the dropped-event counter.
func RecordEventDropped() {
	eventBusDropped.Inc()
	atomic.AddUint64(&eventDroppedCount, 1)
}

// CommandDispatchCount reports the lifetime dispatched-command count,
// surfaced via GetTelemetry.
func CommandDispatchCount() uint64 { return atomic.LoadUint64(&commandDispatchCount) }

// ScriptBudgetBreachCount reports the lifetime script-budget-breach count.
func ScriptBudgetBreachCount() uint64 { return atomic.LoadUint64(&scriptBreachCount) }

// ScriptErrorCount reports the lifetime trapped-script-error count.
func ScriptErrorCount() uint64 { return atomic.LoadUint64(&scriptErrorCount) }

// EventEmittedCount reports the lifetime accepted-event count.
func EventEmittedCount() uint64 { return atomic.LoadUint64(&eventEmittedCount) }

// EventDroppedCount reports the lifetime dropped-event count.
func EventDroppedCount() uint64 { return atomic.LoadUint64(&eventDroppedCount) }

// RecordRequest records one HTTP request's latency and outcome.
func RecordRequest(method, endpoint string, status int, d time.Duration) {
	requestLatency.WithLabelValues(method, endpoint).Observe(d.Seconds())
	requestTotal.WithLabelValues(method, endpoint, http.StatusText(status)).Inc()
}

// SetWSConnections updates the active-websocket-connections gauge.
func SetWSConnections(n int) { wsConnectionsActive.Set(float64(n)) }

// RecordWSMessage increments the event-stream message counter.
func RecordWSMessage() {
	wsMessagesTotal.Inc()
	atomic.AddUint64(&wsMessageCount, 1)
}

// WSMessageCount reports the lifetime event-stream message count.
func WSMessageCount() uint64 { return atomic.LoadUint64(&wsMessageCount) }

// RecordConnectionRejected increments the rejection counter for reason
// ("rate_limit", "origin", "ws_total_limit", "ws_ip_limit").
func RecordConnectionRejected(reason string) { connectionRejected.WithLabelValues(reason).Inc() }
