package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/axiom-sim/axiom/internal/axerr"
	"github.com/axiom-sim/axiom/internal/command"
	"github.com/axiom-sim/axiom/internal/telemetry"
)

// handleCommand is the generic gateway: {kind} names a command.Kind
// directly, the JSON body decodes into the command's Args map. Replaces a
// one-handler-per-route shape (handlePlayerJoin, handleStreamStart, ...)
// since the command vocabulary is wide enough that hand-written handlers
// per kind would just restate the Kind enum in routing form.
func (h *routerHandlers) handleCommand(w http.ResponseWriter, r *http.Request) {
	kind := command.Kind(chi.URLParam(r, "kind"))

	var args map[string]any
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
			writeError(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	result := h.queue.SubmitAndWait(kind, args)
	telemetry.RecordCommand(string(kind))
	h.writeResult(w, result)
}

// handleFixed builds a handler that always submits kind, taking its args
// from the query string (GET routes have no body) rather than JSON.
func (h *routerHandlers) handleFixed(kind command.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var args map[string]any
		if len(r.URL.Query()) > 0 {
			args = make(map[string]any, len(r.URL.Query()))
			for k, v := range r.URL.Query() {
				if len(v) > 0 {
					args[k] = v[0]
				}
			}
		}
		result := h.queue.SubmitAndWait(kind, args)
		telemetry.RecordCommand(string(kind))
		h.writeResult(w, result)
	}
}

// handleGetEvents exposes eventbus.Bus.Since directly, bypassing the
// command queue, since reading the bus is a non-mutating, lock-only
// operation the scheduler doesn't need to serialize (unlike GetState,
// routed through KindGetState so it reflects a consistent tick snapshot).
func (h *routerHandlers) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	after := uint64(0)
	if s := r.URL.Query().Get("after"); s != "" {
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			after = v
		}
	}
	writeJSON(w, http.StatusOK, h.bus.Since(after))
}

func (h *routerHandlers) writeResult(w http.ResponseWriter, result command.Result) {
	if result.Err != nil {
		writeError(w, result.Err.Error(), statusForErr(result.Err))
		return
	}
	writeJSON(w, http.StatusOK, result.Value)
}

// statusForErr maps an axerr.Kind to the HTTP status fight-club-go's
// handlers used to pick by hand per endpoint (StatusBadRequest,
// StatusServiceUnavailable, ...) — centralized here since every response
// now flows through the same handleCommand path.
func statusForErr(err error) int {
	kind, ok := axerr.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case axerr.KindValidation:
		return http.StatusBadRequest
	case axerr.KindNotFound:
		return http.StatusNotFound
	case axerr.KindConflict:
		return http.StatusConflict
	case axerr.KindScriptError:
		return http.StatusUnprocessableEntity
	case axerr.KindTransient:
		return http.StatusServiceUnavailable
	case axerr.KindUnavailable:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
