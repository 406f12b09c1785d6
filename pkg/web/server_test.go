package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/psychgraph/dsmviz/pkg/dataset"
	"github.com/psychgraph/dsmviz/pkg/graph"
	"github.com/psychgraph/dsmviz/pkg/metrics"
	"github.com/psychgraph/dsmviz/pkg/style"
)

func testSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	g, err := graph.Build([]dataset.Record{
		{
			SourceName:     "Major Depressive Disorder",
			TargetName:     "SYM_Anhedonia",
			Relationship:   dataset.RelationshipHasSymptom,
			SourceCategory: "Mood Disorders",
			TargetCategory: "Mood Disorders",
			SourceType:     dataset.NodeTypeDisorder,
			TargetType:     dataset.NodeTypeSymptom,
			Row:            2,
		},
	}, graph.PolicyFirstWins)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return &Snapshot{
		Annotated: style.Annotate(g),
		Metrics:   metrics.Compute(g),
		InputPath: "test.csv",
		BuiltAt:   time.Now(),
	}
}

func TestDocumentWithoutSnapshot(t *testing.T) {
	s := NewServer()

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 before first snapshot, got %d", rec.Code)
	}
}

func TestDocumentWithSnapshot(t *testing.T) {
	s := NewServer()
	s.SetSnapshot(testSnapshot(t))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Expected HTML content type, got %s", ct)
	}
	if !strings.Contains(rec.Body.String(), "Major Depressive Disorder") {
		t.Error("Document missing node data")
	}
}

func TestGraphEndpoint(t *testing.T) {
	s := NewServer()
	s.SetSnapshot(testSnapshot(t))

	req := httptest.NewRequest("GET", "/api/graph", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var payload struct {
		Nodes []style.NodeStyle `json:"nodes"`
		Edges []style.EdgeStyle `json:"edges"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(payload.Nodes) != 2 {
		t.Errorf("Expected 2 nodes, got %d", len(payload.Nodes))
	}
	if len(payload.Edges) != 1 {
		t.Errorf("Expected 1 edge, got %d", len(payload.Edges))
	}
}

func TestGraphEndpointEmpty(t *testing.T) {
	s := NewServer()

	req := httptest.NewRequest("GET", "/api/graph", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 with empty payload, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"nodes":[]`) {
		t.Errorf("Expected empty node list, got %s", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := NewServer()
	s.SetSnapshot(testSnapshot(t))

	req := httptest.NewRequest("GET", "/api/metrics", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var m metrics.Metrics
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("Failed to decode metrics: %v", err)
	}
	if !m.Connected {
		t.Error("Expected a connected two-node network")
	}
}

func TestPaletteEndpoint(t *testing.T) {
	s := NewServer()
	s.SetSnapshot(testSnapshot(t))

	req := httptest.NewRequest("GET", "/api/palette", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var palette map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &palette); err != nil {
		t.Fatalf("Failed to decode palette: %v", err)
	}
	if palette["Mood Disorders"] == "" {
		t.Errorf("Expected a color for Mood Disorders, got %v", palette)
	}
}
