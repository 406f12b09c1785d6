package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/psychgraph/dsmviz/pkg/document"
	"github.com/psychgraph/dsmviz/pkg/logging"
	"github.com/psychgraph/dsmviz/pkg/metrics"
	"github.com/psychgraph/dsmviz/pkg/pubsub"
	"github.com/psychgraph/dsmviz/pkg/style"
)

// Snapshot is one frozen build of the network: the annotated graph, its
// metrics, and when it was built. Served as-is until replaced.
type Snapshot struct {
	Annotated *style.Annotated
	Metrics   *metrics.Metrics
	InputPath string
	BuiltAt   time.Time
}

// Server serves the interactive document, JSON views of the current
// snapshot, and an SSE stream of dataset rebuild events.
type Server struct {
	router    *mux.Router
	publisher pubsub.Publisher

	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewServer creates a new web server
func NewServer() *Server {
	publisher := pubsub.NewSSEPublisher()

	// dataset: new subscribers only need the current state, not history
	publisher.ConfigureTopic("dataset", pubsub.TopicConfig{
		BufferSize: 5,
		ReplayAll:  false,
	})

	s := &Server{
		router:    mux.NewRouter(),
		publisher: publisher,
	}
	s.setupRoutes()
	return s
}

// SetSnapshot replaces the served snapshot and notifies subscribers
func (s *Server) SetSnapshot(snap *Snapshot) {
	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	status := pubsub.DatasetStatus{
		State:     "ready",
		Message:   "dataset rebuilt",
		Nodes:     snap.Annotated.Summary.Nodes,
		Edges:     snap.Annotated.Summary.Edges,
		BuiltAt:   snap.BuiltAt,
		InputPath: snap.InputPath,
	}
	if err := s.publisher.Publish("dataset", "rebuilt", status); err != nil {
		logging.Warn("failed to publish dataset status", "error", err)
	}
}

// PublishDatasetError notifies subscribers that a rebuild failed; the
// previous snapshot stays served.
func (s *Server) PublishDatasetError(inputPath string, err error) {
	status := pubsub.DatasetStatus{
		State:     "error",
		Message:   err.Error(),
		BuiltAt:   time.Now(),
		InputPath: inputPath,
	}
	if pubErr := s.publisher.Publish("dataset", "error", status); pubErr != nil {
		logging.Warn("failed to publish dataset error", "error", pubErr)
	}
}

func (s *Server) current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/subscribe/dataset", s.handleSubscribeDataset).Methods("GET")
	s.router.HandleFunc("/api/graph", s.handleGraph).Methods("GET")
	s.router.HandleFunc("/api/summary", s.handleSummary).Methods("GET")
	s.router.HandleFunc("/api/metrics", s.handleMetrics).Methods("GET")
	s.router.HandleFunc("/api/palette", s.handlePalette).Methods("GET")
	s.router.HandleFunc("/", s.handleDocument).Methods("GET")
}

// handleDocument renders the interactive document for the current snapshot
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	snap := s.current()
	if snap == nil {
		http.Error(w, "dataset not loaded yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := document.Render(w, snap.Annotated, snap.Metrics); err != nil {
		logging.ErrorContext(r.Context(), "failed to render document", "error", err)
	}
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	snap := s.current()
	w.Header().Set("Content-Type", "application/json")
	if snap == nil {
		json.NewEncoder(w).Encode(map[string]any{
			"nodes": []style.NodeStyle{},
			"edges": []style.EdgeStyle{},
		})
		return
	}

	json.NewEncoder(w).Encode(map[string]any{
		"nodes": snap.Annotated.Nodes,
		"edges": snap.Annotated.Edges,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	snap := s.current()
	w.Header().Set("Content-Type", "application/json")
	if snap == nil {
		http.Error(w, "dataset not loaded yet", http.StatusServiceUnavailable)
		return
	}

	summary := snap.Annotated.Summary
	json.NewEncoder(w).Encode(map[string]any{
		"nodes":      summary.Nodes,
		"edges":      summary.Edges,
		"categories": summary.Categories,
		"relations":  summary.Relations,
		"builtAt":    snap.BuiltAt,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	snap := s.current()
	w.Header().Set("Content-Type", "application/json")
	if snap == nil {
		http.Error(w, "dataset not loaded yet", http.StatusServiceUnavailable)
		return
	}
	json.NewEncoder(w).Encode(snap.Metrics)
}

func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	snap := s.current()
	w.Header().Set("Content-Type", "application/json")
	if snap == nil {
		json.NewEncoder(w).Encode(map[string]string{})
		return
	}
	json.NewEncoder(w).Encode(snap.Annotated.Palette)
}

func (s *Server) handleSubscribeDataset(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Initial comment establishes the connection (Safari compatibility)
	fmt.Fprintf(w, ": connected\n\n")
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	sub, err := s.publisher.Subscribe(r.Context(), "dataset")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer sub.Close()

	for event := range sub.Events() {
		if err := pubsub.WriteSSE(w, event); err != nil {
			logging.ErrorContext(r.Context(), "failed to write SSE event", "error", err)
			return
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
	}
}

// Start starts the web server on the specified port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logging.Info("starting web server", "url", fmt.Sprintf("http://localhost%s", addr))
	return http.ListenAndServe(addr, logging.RequestIDMiddleware(s.router))
}
