// Package api provides the HTTP API and websocket feed of sequence outcomes.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"

	"kap/internal/config"
	"kap/internal/protocol"
	"kap/internal/sequence"
)

// Server provides HTTP API for status and the outcome feed
type Server struct {
	configMgr *config.Manager
	runner    *sequence.Runner
	wsMgr     *WSManager

	startOnce  sync.Once
	mu         sync.Mutex
	httpServer *http.Server
}

// NewServer creates a new API server
func NewServer(configMgr *config.Manager, runner *sequence.Runner) *Server {
	s := &Server{
		configMgr: configMgr,
		runner:    runner,
	}
	s.wsMgr = newWSManager(s)
	return s
}

// Handler returns the API routes wrapped in auth and recovery middleware.
// It starts the websocket hub on first use.
func (s *Server) Handler() http.Handler {
	s.startOnce.Do(func() {
		go s.wsMgr.start()
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/ws", s.wsMgr.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	return s.authMiddleware(s.recoverMiddleware(mux))
}

// Start starts the API server on the specified port. It blocks until the
// server is shut down.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("Starting API server on %s", addr)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("ERROR: API server failed to listen on %s: %v", addr, err)
		return err
	}

	server := &http.Server{Handler: s.Handler()}
	s.mu.Lock()
	s.httpServer = server
	s.mu.Unlock()

	// This is blocking
	if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Printf("ERROR: API server stopped: %v", err)
		return err
	}
	return nil
}

// Shutdown stops the HTTP server and the websocket hub.
func (s *Server) Shutdown(ctx context.Context) error {
	s.wsMgr.stop()

	s.mu.Lock()
	server := s.httpServer
	s.mu.Unlock()
	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

// BroadcastOutcome sends a finished run to every websocket client.
func (s *Server) BroadcastOutcome(o sequence.Outcome) {
	payload := outcomePayload(o)
	s.wsMgr.Broadcast(protocol.Message{Type: protocol.TypeOutcome, Payload: payload})
}

// recoverMiddleware prevents panics from crashing the whole server
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("PANIC RECOV: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authMiddleware checks API token if configured
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("API: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

		// Skip auth for health check
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		// Read per request so a reloaded token applies at once
		if token := s.configMgr.Get().General.APIToken; token != "" {
			if r.Header.Get("Authorization") != "Bearer "+token {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// handleConfig handles GET (read) and POST (update) for configuration
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg := s.configMgr.Get()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cfg)

	case http.MethodPost:
		var newCfg config.Config
		if err := json.NewDecoder(r.Body).Decode(&newCfg); err != nil {
			http.Error(w, "Invalid configuration data", http.StatusBadRequest)
			return
		}

		log.Printf("API: Receiving configuration update from %s", r.RemoteAddr)

		if err := s.configMgr.Set(&newCfg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.configMgr.Save(); err != nil {
			log.Printf("API: Failed to save received config: %v", err)
			http.Error(w, "Failed to save configuration", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleStatus handles GET /api/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.status())
}

// handleHealth handles GET /health (for monitoring)
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) status() protocol.StatusResponsePayload {
	cfg := s.configMgr.Get()
	resp := protocol.StatusResponsePayload{
		Sequences: make([]protocol.SequenceStatus, 0, len(cfg.Sequences)),
	}
	for _, seq := range cfg.Sequences {
		st := protocol.SequenceStatus{
			Name:    seq.Name,
			Enabled: seq.Enabled,
			Loop:    seq.Loop,
		}
		if s.runner != nil {
			if o, ok := s.runner.LastOutcome(seq.Name); ok {
				p := outcomePayload(o)
				st.LastOutcome = &p
			}
		}
		resp.Sequences = append(resp.Sequences, st)
	}
	return resp
}

func outcomePayload(o sequence.Outcome) protocol.OutcomePayload {
	record := make([][]string, len(o.Record))
	for i, snapshot := range o.Record {
		names := make([]string, len(snapshot))
		for j, k := range snapshot {
			names[j] = k.String()
		}
		record[i] = names
	}
	return protocol.OutcomePayload{
		RunID:    o.RunID,
		Sequence: o.Sequence,
		State:    o.State.String(),
		Record:   record,
		Started:  o.Started,
		Finished: o.Finished,
	}
}
