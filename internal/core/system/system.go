package system

import (
	"context"
	"time"
)

// System is a per-frame processor driven by the Manager.
type System interface {
	Name() string
	// Priority orders systems within a frame; higher runs first.
	Priority() Priority
	// Update advances the system by deltaTime seconds.
	Update(deltaTime float32) error
}

// Initializer is implemented by systems that need setup before the first
// frame.
type Initializer interface {
	Initialize(ctx context.Context) error
}

// Shutdowner is implemented by systems that hold resources.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// Priority defines execution order priority
type Priority uint16

// System priorities
const (
	PriorityLowest  Priority = 200
	PriorityLow     Priority = 500
	PriorityNormal  Priority = 600
	PriorityHigh    Priority = 1000
	PriorityHighest Priority = 1300
)

// Metrics provides runtime metrics for a system
type Metrics struct {
	ExecutionCount       uint64
	TotalExecutionTime   time.Duration
	AverageExecutionTime time.Duration
	MaxExecutionTime     time.Duration
	ErrorCount           uint64
	LastError            error
	LastExecutionTime    time.Time
}

func (m *Metrics) record(d time.Duration, err error) {
	m.ExecutionCount++
	m.TotalExecutionTime += d
	m.AverageExecutionTime = m.TotalExecutionTime / time.Duration(m.ExecutionCount)
	m.MaxExecutionTime = max(m.MaxExecutionTime, d)
	m.LastExecutionTime = time.Now()
	if err != nil {
		m.ErrorCount++
		m.LastError = err
	}
}
