package pubsub

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestEventBuffer(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	pub.ConfigureTopic("dataset", TopicConfig{
		BufferSize: 3,
		ReplayAll:  true,
	})

	for i := 1; i <= 5; i++ {
		err := pub.Publish("dataset", "rebuilt", DatasetStatus{State: "ready", Nodes: i})
		if err != nil {
			t.Fatalf("Failed to publish event %d: %v", i, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	sub, err := pub.Subscribe(ctx, "dataset")
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	defer sub.Close()

	// Buffer holds the last 3 of 5, so versions 3, 4, 5 replay
	for want := 3; want <= 5; want++ {
		select {
		case event := <-sub.Events():
			if event.Version != want {
				t.Errorf("Expected version %d, got %d", want, event.Version)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("Timeout waiting for replayed event version %d", want)
		}
	}
}

func TestReplayLastOnly(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	pub.ConfigureTopic("dataset", TopicConfig{
		BufferSize: 5,
		ReplayAll:  false,
	})

	for i := 1; i <= 3; i++ {
		err := pub.Publish("dataset", "rebuilt", DatasetStatus{State: "ready", Nodes: i})
		if err != nil {
			t.Fatalf("Failed to publish event %d: %v", i, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	sub, err := pub.Subscribe(ctx, "dataset")
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	defer sub.Close()

	select {
	case event := <-sub.Events():
		if event.Version != 3 {
			t.Errorf("Expected only the last event (version 3), got %d", event.Version)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for event")
	}

	select {
	case event := <-sub.Events():
		t.Errorf("Received unexpected extra event version %d", event.Version)
	case <-time.After(50 * time.Millisecond):
		// Good, only the last event was replayed
	}
}

func TestNoBuffer(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	pub.ConfigureTopic("dataset", TopicConfig{BufferSize: 0})

	if err := pub.Publish("dataset", "rebuilt", DatasetStatus{State: "ready"}); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	sub, err := pub.Subscribe(ctx, "dataset")
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	defer sub.Close()

	select {
	case event := <-sub.Events():
		t.Errorf("Received unexpected replayed event version %d", event.Version)
	case <-time.After(50 * time.Millisecond):
		// Good, nothing buffered
	}

	// Live events still flow
	if err := pub.Publish("dataset", "error", DatasetStatus{State: "error", Message: "boom"}); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}

	select {
	case event := <-sub.Events():
		if event.Type != "error" {
			t.Errorf("Expected error event, got %s", event.Type)
		}
		var status DatasetStatus
		if err := json.Unmarshal(event.Data, &status); err != nil {
			t.Fatalf("Failed to decode event data: %v", err)
		}
		if status.Message != "boom" {
			t.Errorf("Expected message boom, got %s", status.Message)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for live event")
	}
}

func TestPublishAfterClose(t *testing.T) {
	pub := NewSSEPublisher()
	pub.Close()

	if err := pub.Publish("dataset", "rebuilt", DatasetStatus{}); err == nil {
		t.Error("Expected error publishing to a closed publisher")
	}
	if _, err := pub.Subscribe(context.Background(), "dataset"); err == nil {
		t.Error("Expected error subscribing to a closed publisher")
	}
}

func TestWriteSSE(t *testing.T) {
	event := Event{
		Topic:   "dataset",
		Type:    "rebuilt",
		Data:    json.RawMessage(`{"state":"ready"}`),
		Version: 7,
	}

	var buf bytes.Buffer
	if err := WriteSSE(&buf, event); err != nil {
		t.Fatalf("WriteSSE() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "data: ") {
		t.Errorf("SSE frame must start with data:, got %q", out)
	}
	if !strings.HasSuffix(out, "\n\n") {
		t.Errorf("SSE frame must end with a blank line, got %q", out)
	}
	if !strings.Contains(out, `"version":7`) {
		t.Errorf("SSE frame missing version field: %q", out)
	}
}
