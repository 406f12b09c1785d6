package pubsub

import (
	"context"
	"encoding/json"
	"time"
)

// Event represents a pub/sub event
type Event struct {
	Topic   string          `json:"topic"`   // subscription topic (e.g., "dataset")
	Type    string          `json:"type"`    // event type (e.g., "rebuilding", "rebuilt", "error")
	Data    json.RawMessage `json:"data"`    // event payload
	Version int             `json:"version"` // per-topic version number for ordering
}

// Subscription represents a client subscription to a topic
type Subscription interface {
	// Topic returns the subscription topic
	Topic() string

	// Events returns a channel for receiving events
	Events() <-chan Event

	// Close closes the subscription
	Close() error
}

// Publisher manages pub/sub subscriptions and event publishing
type Publisher interface {
	// Subscribe creates a new subscription to a topic.
	// Context cancellation closes the subscription.
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to all subscribers of a topic
	Publish(topic string, eventType string, data interface{}) error

	// Close shuts down the publisher and all subscriptions
	Close() error
}

// DatasetStatus reports the state of the current dataset snapshot. Published
// on the "dataset" topic whenever the input table is (re)loaded.
type DatasetStatus struct {
	State     string    `json:"state"` // loading, ready, error
	Message   string    `json:"message"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	BuiltAt   time.Time `json:"builtAt"`
	InputPath string    `json:"inputPath"`
}
