package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/zeusync/zengine/internal/core/terminal"
)

// installCommands registers the "engine" object:
//
//	engine quit
//	engine stats
//	engine events
//	engine systems
//	engine enable <system>
//	engine disable <system>
func (e *Engine) installCommands() *terminal.Object {
	obj := terminal.NewObject(e.terminal, ObjectName)

	obj.RegisterCommand("quit", func([]string) (string, error) {
		e.Quit()
		return "bye", nil
	})

	obj.RegisterCommand("stats", func([]string) (string, error) {
		m := e.bus.Metrics()
		return fmt.Sprintf("session=%s frames=%d elapsed=%s objects=%d entities=%d systems=%d events=%d",
			e.session,
			e.Frames(),
			e.clock.Elapsed().Round(time.Millisecond),
			e.terminal.ObjectCount(),
			e.scene.Registry().Len(),
			e.systems.Len(),
			m.Published), nil
	})

	obj.RegisterCommand("events", func([]string) (string, error) {
		types := e.events.Types()
		lines := make([]string, 0, len(types))
		for _, typ := range types {
			lines = append(lines, fmt.Sprintf("%s %d", typ, e.events.Count(typ)))
		}
		return strings.Join(lines, "\n"), nil
	})

	obj.RegisterCommand("systems", func([]string) (string, error) {
		order := e.systems.ExecutionOrder()
		lines := make([]string, 0, len(order))
		for _, name := range order {
			state := "enabled"
			if !e.systems.IsEnabled(name) {
				state = "disabled"
			}
			m, _ := e.systems.SystemMetrics(name)
			lines = append(lines, fmt.Sprintf("%s %s updates=%d errors=%d", name, state, m.ExecutionCount, m.ErrorCount))
		}
		return strings.Join(lines, "\n"), nil
	})

	obj.RegisterCommand("enable", func(args []string) (string, error) {
		if len(args) == 0 {
			return "", fmt.Errorf("%w: enable <system>", terminal.ErrMissingArgument)
		}
		return "", e.systems.EnableSystem(args[0])
	})

	obj.RegisterCommand("disable", func(args []string) (string, error) {
		if len(args) == 0 {
			return "", fmt.Errorf("%w: disable <system>", terminal.ErrMissingArgument)
		}
		return "", e.systems.DisableSystem(args[0])
	})

	return obj
}
