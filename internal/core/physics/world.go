// Package physics integrates rigid bodies attached to scene entities and
// writes the results back through the entity transforms.
package physics

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/zeusync/zengine/internal/core/events/bus"
	"github.com/zeusync/zengine/internal/core/observability/log"
	"github.com/zeusync/zengine/internal/core/scene"
	"github.com/zeusync/zengine/internal/core/system"
	"github.com/zeusync/zengine/internal/core/terminal"
	"github.com/zeusync/zengine/pkg/math3d"
)

const (
	// SystemName is also the name of the world's command object.
	SystemName = "physics"
	// DefaultGravity is in units per second squared.
	DefaultGravity float32 = -9.81
)

var ErrNegativeMass = errors.New("mass must not be negative")

// World is the physics system. Bodies with gravity fall along Gravity and
// stop at Floor when FloorEnabled is set.
type World struct {
	*terminal.Object

	bodies []*RigidBody
	sub    bus.Subscription
	logger log.Log

	Gravity      math3d.Vec3
	Floor        float32
	FloorEnabled bool
	Paused       bool
	steps        uint64
}

var _ system.System = (*World)(nil)

// NewWorld registers the "physics" object on t and, when b is not nil,
// drops bodies of destroyed entities.
func NewWorld(t *terminal.Terminal, b bus.EventBus, logger log.Log) (*World, error) {
	w := &World{
		Object:  terminal.NewObject(t, SystemName),
		logger:  logger.With(log.String("component", SystemName)),
		Gravity: math3d.V3(0, DefaultGravity, 0),
	}
	if b != nil {
		sub, err := b.Subscribe(scene.EventEntityDestroyed, w.onEntityDestroyed)
		if err != nil {
			w.Object.Close()
			return nil, fmt.Errorf("subscribe to scene events: %w", err)
		}
		w.sub = sub
	}

	w.RegisterAttribute("gravity", scene.Vec3Attribute(&w.Gravity))
	w.RegisterAttribute("floor", func(args []string) (string, error) {
		if len(args) > 0 && args[0] == "off" {
			w.FloorEnabled = false
			return "", nil
		}
		if _, err := scene.FloatAttribute(&w.Floor)(args); err != nil {
			return "", err
		}
		w.FloorEnabled = true
		return "", nil
	})
	w.RegisterCommand("pause", func([]string) (string, error) { w.Paused = true; return "", nil })
	w.RegisterCommand("resume", func([]string) (string, error) { w.Paused = false; return "", nil })
	w.RegisterCommand("step", func(args []string) (string, error) {
		dt := float32(1.0 / 60)
		if len(args) > 0 {
			var err error
			if dt, err = math3d.ParseFloat(args[0]); err != nil {
				return "", err
			}
		}
		w.Step(dt)
		return "", nil
	})
	w.RegisterCommand("bodies", func([]string) (string, error) {
		names := make([]string, 0, len(w.bodies))
		for _, b := range w.bodies {
			names = append(names, b.Entity().Name())
		}
		return strings.Join(names, " "), nil
	})
	return w, nil
}

// Register adds the RigidBody type to f, creating bodies in w.
func Register(f *scene.Factory, w *World) error {
	return f.Register(scene.RigidBodyType, func(e *scene.Entity) (scene.Component, error) {
		return NewRigidBody(e, w)
	})
}

func (w *World) Name() string              { return SystemName }
func (w *World) Priority() system.Priority { return system.PriorityNormal }
func (w *World) Bodies() []*RigidBody      { return slices.Clone(w.bodies) }
func (w *World) Steps() uint64             { return w.steps }

func (w *World) Update(deltaTime float32) error {
	if w.Paused {
		return nil
	}
	w.Step(deltaTime)
	return nil
}

// Step integrates every dynamic body by dt seconds with semi-implicit Euler
// and moves its entity.
func (w *World) Step(dt float32) {
	if dt <= 0 {
		return
	}
	w.steps++
	for _, b := range slices.Clone(w.bodies) {
		e := b.Entity()
		if b.IsStatic() || e == nil || e.Destroyed() {
			continue
		}
		if b.Gravity {
			b.Velocity = b.Velocity.Add(w.Gravity.MulScalar(dt))
		}
		pos := b.position.Add(b.Velocity.MulScalar(dt))
		if w.FloorEnabled && pos.Y < w.Floor {
			pos.Y = w.Floor
			b.Velocity.Y = 0
		}
		if pos == b.position {
			continue
		}
		e.SetPositionAbs(pos)
	}
}

// Close stops listening to scene events and removes the world object.
func (w *World) Close() {
	if w.sub != nil {
		_ = w.sub.Cancel()
	}
	w.bodies = nil
	w.Object.Close()
}

func (w *World) add(b *RigidBody) {
	w.bodies = append(w.bodies, b)
	w.logger.Debug("body added", log.String("entity", b.Entity().Name()))
}

func (w *World) remove(b *RigidBody) {
	w.bodies = slices.DeleteFunc(w.bodies, func(o *RigidBody) bool { return o == b })
}

func (w *World) onEntityDestroyed(ev bus.Event) error {
	data, ok := ev.Data().(scene.EntityEvent)
	if !ok {
		return nil
	}
	before := len(w.bodies)
	w.bodies = slices.DeleteFunc(w.bodies, func(b *RigidBody) bool { return b.Entity() == data.Entity })
	if len(w.bodies) != before {
		w.logger.Debug("dropped bodies of destroyed entity", log.String("entity", data.Name))
	}
	return nil
}
