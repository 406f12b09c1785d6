package watcher

import (
	"context"
	"testing"
	"time"
)

func TestDebouncerBatchesBurst(t *testing.T) {
	input := make(chan ChangeEvent, 10)
	d := NewDebouncer(input, 50*time.Millisecond, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	// A burst of rapid saves collapses into one output event
	for i := 0; i < 3; i++ {
		input <- ChangeEvent{Paths: []string{"data.csv"}, Timestamp: time.Now()}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case event := <-d.Output():
		if len(event.Paths) != 3 {
			t.Errorf("Expected 3 accumulated paths, got %d", len(event.Paths))
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timeout waiting for debounced event")
	}

	// Nothing else should follow
	select {
	case event := <-d.Output():
		t.Errorf("Received unexpected second event with %d paths", len(event.Paths))
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncerMaxWait(t *testing.T) {
	input := make(chan ChangeEvent, 100)
	d := NewDebouncer(input, 80*time.Millisecond, 200*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	// Keep events coming faster than the quiet period; max wait must
	// still force a flush.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			input <- ChangeEvent{Paths: []string{"data.csv"}, Timestamp: time.Now()}
			time.Sleep(50 * time.Millisecond)
		}
	}()

	select {
	case <-d.Output():
		// Flushed despite the stream never going quiet
	case <-time.After(400 * time.Millisecond):
		t.Fatal("Max wait did not force a flush")
	}
	<-done
}

func TestDebouncerFlushOnClose(t *testing.T) {
	input := make(chan ChangeEvent, 10)
	d := NewDebouncer(input, time.Minute, time.Hour)

	d.Start(context.Background())

	input <- ChangeEvent{Paths: []string{"data.csv"}, Timestamp: time.Now()}
	// Give the debouncer a moment to pick the event up
	time.Sleep(20 * time.Millisecond)
	close(input)

	select {
	case event, ok := <-d.Output():
		if !ok {
			t.Fatal("Output closed without flushing the pending event")
		}
		if len(event.Paths) != 1 {
			t.Errorf("Expected 1 pending path, got %d", len(event.Paths))
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timeout waiting for flush on close")
	}

	if _, ok := <-d.Output(); ok {
		t.Error("Output channel should be closed after input closes")
	}
}
