// Package input maps key events to terminal commands. A bound event pushes
// its command text onto the terminal queue, so the command runs when the
// frame drains the queue.
package input

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/zeusync/zengine/internal/core/observability/log"
	"github.com/zeusync/zengine/internal/core/system"
	"github.com/zeusync/zengine/internal/core/terminal"
)

// ObjectName is the name of the input command object.
const ObjectName = "input"

var (
	ErrInvalidAction  = errors.New("invalid key action")
	ErrInvalidBinding = errors.New("invalid binding")
)

// Action is what happened to a key.
type Action uint8

const (
	Press Action = iota
	Release
)

func (a Action) String() string {
	switch a {
	case Press:
		return "press"
	case Release:
		return "release"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}

// ParseAction accepts "press" and "release".
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(s) {
	case "press", "down":
		return Press, nil
	case "release", "up":
		return Release, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

// Event is a key event. Keys are compared case-insensitively.
type Event struct {
	Key    string
	Action Action
}

type binding struct {
	key    string
	action Action
}

// Input holds the key bindings and the events waiting for the next frame.
// Inject is safe for concurrent use; everything else runs on the frame
// goroutine.
type Input struct {
	*terminal.Object

	term     *terminal.Terminal
	bindings map[binding]string
	logger   log.Log

	mu      sync.Mutex
	pending []Event
}

var _ system.System = (*Input)(nil)

// New registers the "input" object on t:
//
//	input bind <key> <press|release> <command...>
//	input unbind <key> <press|release>
//	input bindings
//	input press <key> | input release <key>
func New(t *terminal.Terminal, logger log.Log) *Input {
	in := &Input{
		Object:   terminal.NewObject(t, ObjectName),
		term:     t,
		bindings: make(map[binding]string),
		logger:   logger.With(log.String("component", ObjectName)),
	}
	in.RegisterCommand("bind", in.cmdBind)
	in.RegisterCommand("unbind", in.cmdUnbind)
	in.RegisterCommand("bindings", func([]string) (string, error) {
		return strings.Join(in.Bindings(), "\n"), nil
	})
	in.RegisterCommand("press", in.simulate(Press))
	in.RegisterCommand("release", in.simulate(Release))
	return in
}

func (in *Input) Name() string              { return ObjectName }
func (in *Input) Priority() system.Priority { return system.PriorityHighest }

// Bind maps key and action to command, replacing any previous command.
// The command must name an object and a command.
func (in *Input) Bind(key string, action Action, command string) error {
	key = normalize(key)
	command = strings.TrimSpace(command)
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidBinding)
	}
	if len(strings.Fields(command)) < 2 {
		return fmt.Errorf("%w: %q is not <object> <command> [arg]...", ErrInvalidBinding, command)
	}
	in.bindings[binding{key, action}] = command
	in.logger.Debug("key bound",
		log.String("key", key),
		log.Stringer("action", action),
		log.String("command", command))
	return nil
}

// Unbind removes the binding of key and action.
func (in *Input) Unbind(key string, action Action) bool {
	b := binding{normalize(key), action}
	if _, ok := in.bindings[b]; !ok {
		return false
	}
	delete(in.bindings, b)
	return true
}

// Command returns the command bound to key and action.
func (in *Input) Command(key string, action Action) (string, bool) {
	cmd, ok := in.bindings[binding{normalize(key), action}]
	return cmd, ok
}

// Bindings lists every binding as "<key> <action> <command>", sorted.
func (in *Input) Bindings() []string {
	out := make([]string, 0, len(in.bindings))
	for b, cmd := range in.bindings {
		out = append(out, fmt.Sprintf("%s %s %s", b.key, b.action, cmd))
	}
	slices.Sort(out)
	return out
}

// Handle pushes the command bound to ev, if any.
func (in *Input) Handle(ev Event) bool {
	cmd, ok := in.Command(ev.Key, ev.Action)
	if !ok {
		return false
	}
	in.term.PushCommand(cmd)
	return true
}

// Inject queues ev for the next Update. It may be called from any
// goroutine.
func (in *Input) Inject(ev Event) {
	in.mu.Lock()
	in.pending = append(in.pending, ev)
	in.mu.Unlock()
}

// Update handles the injected events in arrival order.
func (in *Input) Update(float32) error {
	in.mu.Lock()
	events := in.pending
	in.pending = nil
	in.mu.Unlock()

	for _, ev := range events {
		in.Handle(ev)
	}
	return nil
}

func (in *Input) cmdBind(args []string) (string, error) {
	if len(args) < 4 {
		return "", fmt.Errorf("%w: bind <key> <press|release> <object> <command> [arg]...", terminal.ErrMissingArgument)
	}
	action, err := ParseAction(args[1])
	if err != nil {
		return "", err
	}
	return "", in.Bind(args[0], action, strings.Join(args[2:], " "))
}

func (in *Input) cmdUnbind(args []string) (string, error) {
	if len(args) < 2 {
		return "", fmt.Errorf("%w: unbind <key> <press|release>", terminal.ErrMissingArgument)
	}
	action, err := ParseAction(args[1])
	if err != nil {
		return "", err
	}
	if !in.Unbind(args[0], action) {
		return "", fmt.Errorf("%w: %s %s is not bound", ErrInvalidBinding, args[0], action)
	}
	return "", nil
}

func (in *Input) simulate(action Action) terminal.Func {
	return func(args []string) (string, error) {
		if len(args) == 0 {
			return "", fmt.Errorf("%w: %s <key>", terminal.ErrMissingArgument, action)
		}
		in.Handle(Event{Key: args[0], Action: action})
		return "", nil
	}
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
