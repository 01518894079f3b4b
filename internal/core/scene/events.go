package scene

// Event types published on the scene bus.
const (
	EventEntityCreated      = "entity.created"
	EventEntityDestroyed    = "entity.destroyed"
	EventComponentAttached  = "component.attached"
	EventComponentDestroyed = "component.destroyed"
)

const eventSource = "scene"

// EntityEvent is the payload of entity events. Entity is already closed
// when an entity.destroyed event is delivered.
type EntityEvent struct {
	Name   string
	Entity *Entity
}

// ComponentEvent is the payload of component events.
type ComponentEvent struct {
	Type      string
	Entity    *Entity
	Component Component
}
