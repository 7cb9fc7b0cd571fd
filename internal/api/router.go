package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/bronald/uhcd/internal/auth"
	"github.com/bronald/uhcd/internal/domain"
	"github.com/bronald/uhcd/internal/storage"
)

// Console is the write side of the game server the API exposes to admins
type Console interface {
	Apply(command string) error
}

// Router holds the HTTP routes and dependencies
type Router struct {
	mux     *http.ServeMux
	store   *storage.Store
	console Console
	wsHub   *WebSocketHub
	auth    *auth.Service

	statusMu sync.RWMutex
	status   *domain.SessionStatus
	statusAt time.Time
}

// NewRouter creates a new HTTP router
func NewRouter(store *storage.Store, console Console, authService *auth.Service) *Router {
	r := &Router{
		mux:     http.NewServeMux(),
		store:   store,
		console: console,
		wsHub:   NewWebSocketHub(),
		auth:    authService,
	}

	// Auth routes
	r.mux.HandleFunc("POST /api/auth/login", r.handleLogin)
	r.mux.HandleFunc("GET /api/auth/check", r.handleAuthCheck)

	// Session and history routes
	r.mux.HandleFunc("GET /api/status", r.handleStatus)
	r.mux.HandleFunc("GET /api/matches", r.handleGetMatches)
	r.mux.HandleFunc("GET /api/matches/{id}", r.handleGetMatch)

	// Console passthrough (admin only)
	r.mux.HandleFunc("POST /api/console", r.requireAdmin(r.handleConsole))

	// WebSocket event stream
	r.mux.HandleFunc("GET /ws", r.handleWebSocket)

	// Health check
	r.mux.HandleFunc("GET /health", r.handleHealth)

	return r
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	// CORS headers for API
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if req.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.mux.ServeHTTP(w, req)
}

// StartWebSocketHub starts broadcasting events to WebSocket clients
func (r *Router) StartWebSocketHub() {
	go r.wsHub.Run()
}

// HandleEvent receives every session event. Status snapshots are cached for
// the status endpoint; everything is forwarded to WebSocket clients.
func (r *Router) HandleEvent(ev domain.Event) {
	if ev.Type == domain.EventStatus {
		if status, ok := ev.Data.(domain.SessionStatus); ok {
			r.statusMu.Lock()
			r.status = &status
			r.statusAt = ev.Timestamp
			r.statusMu.Unlock()
		}
	}
	r.wsHub.Broadcast(ev)
}
