// Package system runs frame systems in priority order.
package system

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/zeusync/zengine/internal/core/observability/log"
)

var (
	ErrSystemExists   = errors.New("system already registered")
	ErrSystemNotFound = errors.New("system not found")
)

type entry struct {
	system  System
	enabled bool
	order   int
	metrics Metrics
}

// Manager owns the registered systems and updates the enabled ones each
// frame. Systems with equal priority run in registration order.
type Manager struct {
	entries map[string]*entry
	ordered []*entry
	next    int
	onError func(name string, err error)
	logger  log.Log
}

func NewManager(logger log.Log) *Manager {
	return &Manager{
		entries: make(map[string]*entry),
		logger:  logger.With(log.String("component", "systems")),
	}
}

// RegisterSystem adds s enabled.
func (m *Manager) RegisterSystem(s System) error {
	name := s.Name()
	if _, ok := m.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrSystemExists, name)
	}
	e := &entry{system: s, enabled: true, order: m.next}
	m.next++
	m.entries[name] = e
	m.ordered = append(m.ordered, e)
	slices.SortStableFunc(m.ordered, func(a, b *entry) int {
		if c := cmp.Compare(b.system.Priority(), a.system.Priority()); c != 0 {
			return c
		}
		return cmp.Compare(a.order, b.order)
	})
	m.logger.Debug("system registered",
		log.String("system", name),
		log.Int("priority", int(s.Priority())))
	return nil
}

// UnregisterSystem removes the named system.
func (m *Manager) UnregisterSystem(name string) error {
	e, ok := m.entries[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSystemNotFound, name)
	}
	delete(m.entries, name)
	m.ordered = slices.DeleteFunc(m.ordered, func(o *entry) bool { return o == e })
	return nil
}

func (m *Manager) GetSystem(name string) (System, bool) {
	e, ok := m.entries[name]
	if !ok {
		return nil, false
	}
	return e.system, true
}

func (m *Manager) HasSystem(name string) bool {
	_, ok := m.entries[name]
	return ok
}

// ExecutionOrder returns the system names in update order.
func (m *Manager) ExecutionOrder() []string {
	out := make([]string, len(m.ordered))
	for i, e := range m.ordered {
		out[i] = e.system.Name()
	}
	return out
}

func (m *Manager) EnableSystem(name string) error {
	return m.setEnabled(name, true)
}

func (m *Manager) DisableSystem(name string) error {
	return m.setEnabled(name, false)
}

func (m *Manager) setEnabled(name string, enabled bool) error {
	e, ok := m.entries[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSystemNotFound, name)
	}
	e.enabled = enabled
	return nil
}

// IsEnabled reports whether the named system runs on Update.
func (m *Manager) IsEnabled(name string) bool {
	e, ok := m.entries[name]
	return ok && e.enabled
}

// OnSystemError sets a callback for update errors.
func (m *Manager) OnSystemError(fn func(name string, err error)) {
	m.onError = fn
}

// InitializeAll initializes systems in execution order and stops at the
// first failure.
func (m *Manager) InitializeAll(ctx context.Context) error {
	for _, e := range m.ordered {
		if in, ok := e.system.(Initializer); ok {
			if err := in.Initialize(ctx); err != nil {
				return fmt.Errorf("initialize %s: %w", e.system.Name(), err)
			}
		}
	}
	return nil
}

// ShutdownAll shuts systems down in reverse execution order and joins the
// errors.
func (m *Manager) ShutdownAll(ctx context.Context) error {
	var all error
	for _, e := range slices.Backward(m.ordered) {
		if sd, ok := e.system.(Shutdowner); ok {
			if err := sd.Shutdown(ctx); err != nil {
				all = errors.Join(all, fmt.Errorf("shutdown %s: %w", e.system.Name(), err))
			}
		}
	}
	return all
}

// Update runs every enabled system once. A failing system does not stop the
// others; the errors are joined.
func (m *Manager) Update(deltaTime float32) error {
	var all error
	for _, e := range slices.Clone(m.ordered) {
		if !e.enabled {
			continue
		}
		start := time.Now()
		err := e.system.Update(deltaTime)
		e.metrics.record(time.Since(start), err)
		if err != nil {
			m.logger.Warn("system update failed",
				log.String("system", e.system.Name()),
				log.Error(err))
			if m.onError != nil {
				m.onError(e.system.Name(), err)
			}
			all = errors.Join(all, fmt.Errorf("%s: %w", e.system.Name(), err))
		}
	}
	return all
}

// SystemMetrics returns a copy of the named system's metrics.
func (m *Manager) SystemMetrics(name string) (Metrics, bool) {
	e, ok := m.entries[name]
	if !ok {
		return Metrics{}, false
	}
	return e.metrics, true
}

func (m *Manager) Len() int {
	return len(m.ordered)
}
