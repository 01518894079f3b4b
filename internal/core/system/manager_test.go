package system

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/zengine/internal/core/observability/log"
)

type fakeSystem struct {
	name     string
	priority Priority
	calls    *[]string
	err      error
	initErr  error
	shutdown int
}

func (f *fakeSystem) Name() string       { return f.name }
func (f *fakeSystem) Priority() Priority { return f.priority }

func (f *fakeSystem) Update(float32) error {
	*f.calls = append(*f.calls, f.name)
	return f.err
}

func (f *fakeSystem) Initialize(context.Context) error {
	*f.calls = append(*f.calls, "init:"+f.name)
	return f.initErr
}

func (f *fakeSystem) Shutdown(context.Context) error {
	f.shutdown++
	*f.calls = append(*f.calls, "shutdown:"+f.name)
	return nil
}

func TestUpdateRunsByPriority(t *testing.T) {
	var calls []string
	m := NewManager(log.Nop())
	require.NoError(t, m.RegisterSystem(&fakeSystem{name: "render", priority: PriorityLow, calls: &calls}))
	require.NoError(t, m.RegisterSystem(&fakeSystem{name: "input", priority: PriorityHighest, calls: &calls}))
	require.NoError(t, m.RegisterSystem(&fakeSystem{name: "physics", priority: PriorityNormal, calls: &calls}))
	require.NoError(t, m.RegisterSystem(&fakeSystem{name: "audio", priority: PriorityLow, calls: &calls}))

	assert.Equal(t, []string{"input", "physics", "render", "audio"}, m.ExecutionOrder())
	require.NoError(t, m.Update(0.016))
	assert.Equal(t, []string{"input", "physics", "render", "audio"}, calls)
}

func TestRegisterDuplicateAndUnregister(t *testing.T) {
	var calls []string
	m := NewManager(log.Nop())
	require.NoError(t, m.RegisterSystem(&fakeSystem{name: "a", calls: &calls}))
	assert.ErrorIs(t, m.RegisterSystem(&fakeSystem{name: "a", calls: &calls}), ErrSystemExists)

	assert.True(t, m.HasSystem("a"))
	require.NoError(t, m.UnregisterSystem("a"))
	assert.False(t, m.HasSystem("a"))
	assert.ErrorIs(t, m.UnregisterSystem("a"), ErrSystemNotFound)
	assert.Equal(t, 0, m.Len())
}

func TestDisabledSystemIsSkipped(t *testing.T) {
	var calls []string
	m := NewManager(log.Nop())
	require.NoError(t, m.RegisterSystem(&fakeSystem{name: "a", calls: &calls}))
	require.NoError(t, m.RegisterSystem(&fakeSystem{name: "b", calls: &calls}))
	require.NoError(t, m.DisableSystem("a"))
	assert.False(t, m.IsEnabled("a"))

	require.NoError(t, m.Update(1))
	assert.Equal(t, []string{"b"}, calls)

	require.NoError(t, m.EnableSystem("a"))
	require.NoError(t, m.Update(1))
	assert.Equal(t, []string{"b", "a", "b"}, calls)
	assert.ErrorIs(t, m.EnableSystem("zzz"), ErrSystemNotFound)
}

func TestUpdateErrorsDoNotStopOtherSystems(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	m := NewManager(log.Nop())
	require.NoError(t, m.RegisterSystem(&fakeSystem{name: "a", priority: PriorityHigh, calls: &calls, err: boom}))
	require.NoError(t, m.RegisterSystem(&fakeSystem{name: "b", calls: &calls}))

	var failed []string
	m.OnSystemError(func(name string, err error) { failed = append(failed, name) })

	err := m.Update(1)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Equal(t, []string{"a"}, failed)

	metrics, ok := m.SystemMetrics("a")
	require.True(t, ok)
	assert.Equal(t, uint64(1), metrics.ExecutionCount)
	assert.Equal(t, uint64(1), metrics.ErrorCount)
	assert.ErrorIs(t, metrics.LastError, boom)
}

func TestLifecycleOrder(t *testing.T) {
	var calls []string
	m := NewManager(log.Nop())
	require.NoError(t, m.RegisterSystem(&fakeSystem{name: "low", priority: PriorityLow, calls: &calls}))
	require.NoError(t, m.RegisterSystem(&fakeSystem{name: "high", priority: PriorityHigh, calls: &calls}))

	require.NoError(t, m.InitializeAll(context.Background()))
	require.NoError(t, m.ShutdownAll(context.Background()))
	assert.Equal(t, []string{"init:high", "init:low", "shutdown:low", "shutdown:high"}, calls)
}

func TestInitializeStopsAtFirstFailure(t *testing.T) {
	var calls []string
	bad := errors.New("bad")
	m := NewManager(log.Nop())
	require.NoError(t, m.RegisterSystem(&fakeSystem{name: "a", priority: PriorityHigh, calls: &calls, initErr: bad}))
	require.NoError(t, m.RegisterSystem(&fakeSystem{name: "b", calls: &calls}))

	assert.ErrorIs(t, m.InitializeAll(context.Background()), bad)
	assert.Equal(t, []string{"init:a"}, calls)
}
