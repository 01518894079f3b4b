// Package scene implements the entity hierarchy: entities with absolute and
// parent-relative transforms, type-keyed components, the entity name
// registry and the component factory.
//
// Every entity is a terminal object named after the entity, so the whole
// scene can be driven with text commands such as "cube translate 0 1 0".
package scene

import (
	"github.com/zeusync/zengine/internal/core/events/bus"
	"github.com/zeusync/zengine/internal/core/observability/log"
	"github.com/zeusync/zengine/internal/core/terminal"
)

// RootName is the name of the scene root. It is never in the registry.
const RootName = "root"

// Scene owns the root entity and the services entities share.
type Scene struct {
	terminal *terminal.Terminal
	registry *Registry
	factory  *Factory
	device   Device
	bus      bus.EventBus
	logger   log.Log
	root     *Entity
}

type Option func(*Scene)

// WithDevice sets the timing source. The default device reports zero time.
func WithDevice(d Device) Option {
	return func(s *Scene) { s.device = d }
}

// WithBus sets the bus scene events are published on.
func WithBus(b bus.EventBus) Option {
	return func(s *Scene) { s.bus = b }
}

// WithFactory sets the component factory.
func WithFactory(f *Factory) Option {
	return func(s *Scene) { s.factory = f }
}

func WithLogger(l log.Log) Option {
	return func(s *Scene) { s.logger = l }
}

// New creates a scene with an empty root registered on t.
func New(t *terminal.Terminal, opts ...Option) *Scene {
	s := &Scene{
		terminal: t,
		registry: NewRegistry(),
		factory:  NewFactory(),
		device:   nopDevice{},
		bus:      bus.New(),
		logger:   t.Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(log.String("component", "scene"))
	s.root = newEntity(s, RootName, nil)
	return s
}

func (s *Scene) Root() *Entity                { return s.root }
func (s *Scene) Registry() *Registry          { return s.registry }
func (s *Scene) Factory() *Factory            { return s.factory }
func (s *Scene) Device() Device               { return s.device }
func (s *Scene) Bus() bus.EventBus            { return s.bus }
func (s *Scene) Terminal() *terminal.Terminal { return s.terminal }

// Find returns the root for RootName and registered entities otherwise.
func (s *Scene) Find(name string) (*Entity, error) {
	if name == RootName {
		return s.root, nil
	}
	return s.registry.Find(name)
}

// Clear destroys every entity below the root.
func (s *Scene) Clear() {
	s.root.RemoveAllChildren()
}

// Close destroys the whole scene, root included.
func (s *Scene) Close() {
	s.root.destroy()
}

func (s *Scene) publish(eventType string, data any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(bus.NewEvent(eventType, eventSource, data)); err != nil {
		s.logger.Error("scene event handler failed",
			log.String("event", eventType),
			log.Error(err))
	}
}
