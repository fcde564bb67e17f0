package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hallwaylabs/hallway/space/room"
	"github.com/hallwaylabs/hallway/transport/websocket"
)

// SpaceLister enumerates the space ids a loader can serve. Only the local
// file-backed loader implements it; in platform mode the listing endpoint
// reports that spaces are managed remotely.
type SpaceLister interface {
	List() ([]string, error)
}

// Server wires the WebSocket gateway and the operational endpoints onto one
// router.
type Server struct {
	registry *room.Registry
	gateway  *websocket.Gateway
	lister   SpaceLister
	router   *mux.Router
}

// NewServer creates the HTTP server. lister may be nil.
func NewServer(registry *room.Registry, gateway *websocket.Gateway, lister SpaceLister) *Server {
	s := &Server{
		registry: registry,
		gateway:  gateway,
		lister:   lister,
		router:   mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/ws", s.gateway.ServeWS)
	s.router.HandleFunc("/healthz", s.handleHealthz).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", s.handleStatus).Methods("GET")
	api.HandleFunc("/metrics", s.handleMetrics).Methods("GET")
	api.HandleFunc("/spaces", s.handleSpaces).Methods("GET")
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.registry.Status()
	if status == nil {
		status = []room.RoomStatus{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"rooms": status,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.registry.Metrics().Snapshot())
}

func (s *Server) handleSpaces(w http.ResponseWriter, r *http.Request) {
	if s.lister == nil {
		respondError(w, http.StatusNotImplemented, "spaces are managed by the platform map service")
		return
	}
	ids, err := s.lister.List()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ids == nil {
		ids = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"spaces": ids})
}
