package bus

import "time"

// EventBus is an in-process pub/sub bus used to announce scene changes
// (entities created and destroyed, components attached) to systems that
// keep their own bookkeeping.
//
// Delivery is synchronous: Publish calls every handler subscribed to
// event.Type() in the caller goroutine, in subscription order. Handler errors
// are joined and returned from Publish. All methods are safe for concurrent
// use; a handler that subscribes during delivery is first called on the next
// Publish.
type EventBus interface {
	// Publish delivers the event to all active subscribers of event.Type().
	Publish(event Event) error
	// PublishBatch publishes events in order and joins their errors.
	PublishBatch(events ...Event) error
	// Subscribe registers a handler for an event type.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels sub. Nil is accepted and ignored.
	Unsubscribe(sub Subscription) error
	// Subscribers returns the number of active handlers for eventType.
	Subscribers(eventType string) int

	// AddObserver registers an observer of deliveries.
	AddObserver(obs Observer)
	// RemoveObserver unregisters obs.
	RemoveObserver(obs Observer)
	// Metrics returns a snapshot of the counters. They only move while at
	// least one observer is registered.
	Metrics() Metrics
}

// Event is an immutable message transported by the EventBus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type (
	// EventHandler is invoked for each delivered event.
	EventHandler func(event Event) error
)

// Subscription is a handler bound to one event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel removes the handler. Multiple calls are safe.
	Cancel() error
}

// Observer is told about every publish and its outcome.
type Observer interface {
	OnPublish(eventType string, event Event)
	OnDelivered(eventType string, handlers int, err error, duration time.Duration)
}

// Metrics holds the bus counters.
type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
}
