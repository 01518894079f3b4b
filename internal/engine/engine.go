// Package engine wires the terminal, the scene and the frame systems into
// one frame loop.
//
// All terminal and scene work happens on the goroutine that calls Frame (or
// Run). Other goroutines hand commands over with Submit and key events with
// Input().Inject.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/zengine/internal/config"
	"github.com/zeusync/zengine/internal/core/components"
	"github.com/zeusync/zengine/internal/core/device"
	"github.com/zeusync/zengine/internal/core/events/bus"
	"github.com/zeusync/zengine/internal/core/input"
	"github.com/zeusync/zengine/internal/core/observability/log"
	"github.com/zeusync/zengine/internal/core/physics"
	"github.com/zeusync/zengine/internal/core/scene"
	"github.com/zeusync/zengine/internal/core/scenefile"
	"github.com/zeusync/zengine/internal/core/script"
	"github.com/zeusync/zengine/internal/core/system"
	"github.com/zeusync/zengine/internal/core/terminal"
	"github.com/zeusync/zengine/internal/core/token"
)

// ObjectName is the terminal object controlling the engine.
const ObjectName = "engine"

var ErrClosed = errors.New("engine closed")

type Engine struct {
	session string
	cfg     *config.Config
	logger  log.Log
	out     io.Writer

	terminal *terminal.Terminal
	bus      bus.EventBus
	clock    *device.Clock
	scene    *scene.Scene
	systems  *system.Manager
	input    *input.Input
	physics  *physics.World
	lua      *script.Runner
	events   *eventCounter

	mu     sync.Mutex
	inbox  []string
	frames uint64
	quit   chan struct{}
	once   sync.Once
	closed bool
}

type Option func(*Engine)

// WithOutput sets where Run and Start write command output. Defaults to
// io.Discard.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.out = w }
}

// WithClock replaces the frame clock.
func WithClock(c *device.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// New builds every subsystem described by cfg. Nothing runs until Start.
func New(cfg *config.Config, logger log.Log, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		session: uuid.NewString(),
		cfg:     cfg,
		out:     io.Discard,
		quit:    make(chan struct{}),
		events:  newEventCounter(),
	}
	e.logger = logger.With(log.String("session", e.session))
	for _, opt := range opts {
		opt(e)
	}
	if e.clock == nil {
		e.clock = device.NewClock()
	}

	e.terminal = terminal.New(e.logger,
		token.WithStart(token.ID(cfg.Tokens.Start)),
		token.WithStep(token.ID(cfg.Tokens.Step)))
	e.terminal.InstallBuiltins()

	e.bus = bus.New()
	e.bus.AddObserver(e.events)

	world, err := physics.NewWorld(e.terminal, e.bus, e.logger)
	if err != nil {
		return nil, fmt.Errorf("create physics world: %w", err)
	}
	e.physics = world

	factory := scene.NewFactory()
	if err := components.Register(factory); err != nil {
		return nil, fmt.Errorf("register components: %w", err)
	}
	if err := physics.Register(factory, world); err != nil {
		return nil, fmt.Errorf("register physics: %w", err)
	}

	e.scene = scene.New(e.terminal,
		scene.WithDevice(e.clock),
		scene.WithBus(e.bus),
		scene.WithFactory(factory),
		scene.WithLogger(e.logger))
	scenefile.Install(e.scene)

	e.input = input.New(e.terminal, e.logger)
	for _, b := range cfg.Input.Bindings {
		action, err := input.ParseAction(b.Action)
		if err != nil {
			return nil, err
		}
		if err := e.input.Bind(b.Key, action, b.Command); err != nil {
			return nil, fmt.Errorf("bind %s %s: %w", b.Key, b.Action, err)
		}
	}

	e.systems = system.NewManager(e.logger)
	for _, s := range []system.System{e.input, e.physics} {
		if err := e.systems.RegisterSystem(s); err != nil {
			return nil, err
		}
	}

	e.lua = script.New(e.terminal, e.logger)
	e.lua.Install()

	e.installCommands()
	return e, nil
}

func (e *Engine) Session() string              { return e.session }
func (e *Engine) Terminal() *terminal.Terminal { return e.terminal }
func (e *Engine) Scene() *scene.Scene          { return e.scene }
func (e *Engine) Systems() *system.Manager     { return e.systems }
func (e *Engine) Input() *input.Input          { return e.input }
func (e *Engine) Physics() *physics.World      { return e.physics }
func (e *Engine) Lua() *script.Runner          { return e.lua }
func (e *Engine) Bus() bus.EventBus            { return e.bus }
func (e *Engine) Clock() *device.Clock         { return e.clock }

// Start initializes the systems, loads the configured scene and runs the
// startup scripts in order: command scripts first, then Lua scripts.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.systems.InitializeAll(ctx); err != nil {
		return err
	}
	if e.cfg.Scene != "" {
		if err := scenefile.LoadFile(e.scene, e.cfg.Scene); err != nil {
			return err
		}
		e.logger.Info("scene loaded",
			log.String("file", e.cfg.Scene),
			log.Int("entities", e.scene.Registry().Len()))
	}
	for _, path := range e.cfg.Scripts {
		out, err := e.terminal.RunScript(path)
		e.write(out)
		if err != nil {
			return err
		}
	}
	for _, path := range e.cfg.LuaScripts {
		out, err := e.lua.RunFile(path)
		e.write(out)
		if err != nil {
			return err
		}
	}
	return nil
}

// Submit queues a command line for the next frame. It is safe for
// concurrent use.
func (e *Engine) Submit(line string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inbox = append(e.inbox, line)
}

// Quit asks Run to return after the current frame. It is safe for
// concurrent use.
func (e *Engine) Quit() {
	e.once.Do(func() { close(e.quit) })
}

// Done is closed once Quit has been called.
func (e *Engine) Done() <-chan struct{} {
	return e.quit
}

// Frames returns the number of frames run so far.
func (e *Engine) Frames() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

// Frame runs one frame: it ticks the clock, runs every queued command
// (submitted lines included) until the queue is empty and then updates the
// systems by priority. It returns the output of the commands.
func (e *Engine) Frame() string {
	dt := e.clock.Tick()

	e.mu.Lock()
	lines := e.inbox
	e.inbox = nil
	e.frames++
	e.mu.Unlock()

	for _, line := range lines {
		e.terminal.PushCommand(line)
	}
	out := e.terminal.ProcessCommandsQueue()

	if err := e.systems.Update(float32(dt.Seconds())); err != nil {
		e.logger.Debug("frame finished with system errors", log.Error(err))
	}
	return out
}

// Run calls Frame at the configured frame rate until ctx is done, Quit is
// called or the configured number of frames has run.
func (e *Engine) Run(ctx context.Context) error {
	period := time.Second / time.Duration(e.cfg.Engine.FrameRate)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	e.logger.Info("frame loop started",
		log.Int("frame_rate", e.cfg.Engine.FrameRate),
		log.Uint64("max_frames", e.cfg.Engine.MaxFrames))

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("frame loop stopped", log.String("reason", ctx.Err().Error()))
			return nil
		case <-e.quit:
			e.logger.Info("frame loop stopped", log.String("reason", "quit"))
			return nil
		case <-ticker.C:
		}

		e.write(e.Frame())

		if limit := e.cfg.Engine.MaxFrames; limit > 0 && e.Frames() >= limit {
			e.logger.Info("frame loop stopped", log.String("reason", "max frames"))
			return nil
		}
	}
}

// Close shuts the systems down and destroys the scene.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.closed = true
	e.mu.Unlock()

	e.Quit()
	err := e.systems.ShutdownAll(ctx)
	e.scene.Close()
	e.physics.Close()
	e.bus.RemoveObserver(e.events)
	return err
}

func (e *Engine) write(s string) {
	if s == "" {
		return
	}
	if _, err := io.WriteString(e.out, s); err != nil {
		e.logger.Warn("write output", log.Error(err))
	}
}
