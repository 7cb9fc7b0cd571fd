package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/bronald/uhcd/internal/domain"
)

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// parseID parses an ID from the URL path
func parseID(req *http.Request, param string) (int64, error) {
	idStr := req.PathValue(param)
	return strconv.ParseInt(idStr, 10, 64)
}

// parseLimit parses the limit query parameter with a default and a cap
func parseLimit(req *http.Request, def, max int) int {
	limitStr := req.URL.Query().Get("limit")
	if limitStr == "" {
		return def
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// handleStatus returns the latest session snapshot
func (r *Router) handleStatus(w http.ResponseWriter, req *http.Request) {
	r.statusMu.RLock()
	status := r.status
	statusAt := r.statusAt
	r.statusMu.RUnlock()

	if status == nil {
		writeError(w, http.StatusServiceUnavailable, "session status not available yet")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     status,
		"updated_at": statusAt,
	})
}

// handleGetMatches returns recent matches with rosters and eliminations
func (r *Router) handleGetMatches(w http.ResponseWriter, req *http.Request) {
	limit := parseLimit(req, 20, 100)
	matches, err := r.store.GetRecentMatches(req.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if matches == nil {
		matches = []domain.MatchSummary{}
	}
	writeJSON(w, http.StatusOK, matches)
}

// handleGetMatch returns a single match
func (r *Router) handleGetMatch(w http.ResponseWriter, req *http.Request) {
	id, err := parseID(req, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid match id")
		return
	}

	match, err := r.store.GetMatch(req.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// ConsoleRequest is the request body for console commands
type ConsoleRequest struct {
	Command string `json:"command"`
}

// handleConsole writes a raw command to the game server console (admin only)
func (r *Router) handleConsole(w http.ResponseWriter, req *http.Request) {
	var body ConsoleRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if body.Command == "" {
		writeError(w, http.StatusBadRequest, "command is required")
		return
	}

	if err := r.console.Apply(body.Command); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// handleHealth returns basic liveness information
func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"time":       time.Now().UTC(),
		"ws_clients": r.wsHub.ClientCount(),
	})
}
