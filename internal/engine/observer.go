package engine

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/zeusync/zengine/internal/core/events/bus"
)

// eventCounter counts published scene events per type.
type eventCounter struct {
	mu     sync.Mutex
	counts map[string]uint64
}

var _ bus.Observer = (*eventCounter)(nil)

func newEventCounter() *eventCounter {
	return &eventCounter{counts: make(map[string]uint64)}
}

func (c *eventCounter) OnPublish(eventType string, _ bus.Event) {
	c.mu.Lock()
	c.counts[eventType]++
	c.mu.Unlock()
}

func (c *eventCounter) OnDelivered(string, int, error, time.Duration) {}

func (c *eventCounter) Count(eventType string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[eventType]
}

func (c *eventCounter) Types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Sorted(maps.Keys(c.counts))
}
