package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/stellarforge/empirecore/internal/apperr"
	"github.com/stellarforge/empirecore/turn"
)

// TurnHeaders sets the response headers every authenticated response
// carries (§6): X-Game-Turn, X-Turn-Phase, X-Phase-Time-Remaining,
// X-Action-Points.
func TurnHeaders(w http.ResponseWriter, snap turn.Snapshot, actionPointsAvailable int) {
	w.Header().Set("X-Game-Turn", strconv.FormatInt(snap.TurnNumber, 10))
	w.Header().Set("X-Turn-Phase", string(snap.Phase))
	w.Header().Set("X-Phase-Time-Remaining", strconv.FormatInt(int64(snap.TimeRemaining/time.Second), 10))
	w.Header().Set("X-Action-Points", strconv.Itoa(actionPointsAvailable))
}

// WriteError maps a tagged *apperr.Error onto its §7 HTTP status and body.
// Internal errors expose only the correlation id; every other kind
// includes its message and any structured payload.
func WriteError(w http.ResponseWriter, err *apperr.Error) {
	body := map[string]any{"kind": string(err.Kind)}
	if err.Kind == apperr.KindInternal {
		body["correlation_id"] = err.CorrelationID
	} else {
		body["message"] = err.Message
		if err.Payload != nil {
			body["details"] = err.Payload
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus())
	_ = json.NewEncoder(w).Encode(body)
}

// WriteJSON writes v as a 200 JSON response, the common success path for
// every read-only route in §6's HTTP surface.
func WriteJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteAccepted writes v as a 202 Accepted response, used by movement
// routes that return an ETA instead of a synchronous result (§6).
func WriteAccepted(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteCreated writes v as a 201 Created response, used by
// POST /combat/battles (§6).
func WriteCreated(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(v)
}
