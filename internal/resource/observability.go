package resource

import (
	"log"
	"time"
)

// Observer receives structured lifecycle events while resources are
// created and deleted.
type Observer interface {
	Event(event Event)
}

// Event represents one resource lifecycle event.
type Event struct {
	Type      EventType
	Resource  string
	Kind      Kind
	Message   string
	Timestamp time.Time
}

// EventType identifies the lifecycle transition an event reports.
type EventType string

const (
	// EventResourceCreating indicates a create request was submitted.
	EventResourceCreating EventType = "resource.creating"
	// EventResourceCreated indicates a resource reached readiness.
	EventResourceCreated EventType = "resource.created"
	// EventResourceExists indicates a create hit an already-existing resource.
	EventResourceExists EventType = "resource.exists"
	// EventResourceDeleting indicates a delete request was submitted.
	EventResourceDeleting EventType = "resource.deleting"
	// EventResourceDeleted indicates the control plane confirmed removal.
	EventResourceDeleted EventType = "resource.deleted"
	// EventResourceFailed indicates a lifecycle operation failed.
	EventResourceFailed EventType = "resource.failed"
)

// ConsoleObserver logs events through the standard log package.
type ConsoleObserver struct{}

// NewConsoleObserver creates a console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{}
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Message != "" {
		log.Printf("[%s] %s %s: %s", event.Type, event.Kind, event.Resource, event.Message)
		return
	}
	log.Printf("[%s] %s %s", event.Type, event.Kind, event.Resource)
}

// NopObserver discards all events.
type NopObserver struct{}

// Event implements Observer.
func (NopObserver) Event(Event) {}
