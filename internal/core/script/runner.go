// Package script runs Lua scripts against the terminal. Scripts see an
// "engine" table:
//
//	out, err = engine.exec("cube translate 0 1 0")  -- run now
//	engine.push("cube print")                        -- queue for the frame
//	list = engine.complete("cu")                     -- autocomplete
//	list = engine.objects()
//
// print writes to the script output instead of stdout.
package script

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"

	"github.com/zeusync/zengine/internal/core/observability/log"
	"github.com/zeusync/zengine/internal/core/terminal"
)

// ObjectName is the name of the Lua command object.
const ObjectName = "lua"

// Runner owns one Lua state. It is not safe for concurrent use.
type Runner struct {
	state  *lua.State
	term   *terminal.Terminal
	logger log.Log
	out    *strings.Builder
}

// New creates a Lua state with the standard libraries and the engine table.
func New(t *terminal.Terminal, logger log.Log) *Runner {
	r := &Runner{
		state:  lua.NewState(),
		term:   t,
		logger: logger.With(log.String("component", "lua")),
		out:    &strings.Builder{},
	}
	lua.OpenLibraries(r.state)
	r.registerAPI()
	return r
}

func (r *Runner) registerAPI() {
	r.state.NewTable()
	lua.SetFunctions(r.state, []lua.RegistryFunction{
		{Name: "exec", Function: r.luaExec},
		{Name: "push", Function: r.luaPush},
		{Name: "complete", Function: r.luaComplete},
		{Name: "objects", Function: r.luaObjects},
	}, 0)
	r.state.SetGlobal("engine")
	r.state.Register("print", r.luaPrint)
}

// RunString runs code and returns what it printed. name identifies the
// chunk in error messages. A script run from inside another one, through
// engine.exec, prints into its own buffer.
func (r *Runner) RunString(name, code string) (string, error) {
	outer := r.out
	r.out = &strings.Builder{}
	defer func() { r.out = outer }()

	top := r.state.Top()
	defer r.state.SetTop(top)

	if err := lua.LoadBuffer(r.state, code, "="+name, ""); err != nil {
		return "", fmt.Errorf("load %s: %w", name, err)
	}
	if err := r.state.ProtectedCall(0, 0, 0); err != nil {
		r.logger.Warn("lua script failed", log.String("chunk", name), log.Error(err))
		return r.out.String(), fmt.Errorf("run %s: %w", name, err)
	}
	return r.out.String(), nil
}

// RunFile runs the Lua file at path.
func (r *Runner) RunFile(path string) (string, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read lua script: %w", err)
	}
	return r.RunString(filepath.Base(path), string(code))
}

// Install registers the "lua" object:
//
//	lua run <file>
//	lua eval <code...>
func (r *Runner) Install() *terminal.Object {
	obj := terminal.NewObject(r.term, ObjectName)
	obj.RegisterCommand("run", func(args []string) (string, error) {
		if len(args) == 0 {
			return "", fmt.Errorf("%w: run <file>", terminal.ErrMissingArgument)
		}
		return r.RunFile(args[0])
	})
	obj.RegisterCommand("eval", func(args []string) (string, error) {
		if len(args) == 0 {
			return "", fmt.Errorf("%w: eval <code...>", terminal.ErrMissingArgument)
		}
		return r.RunString("eval", strings.Join(args, " "))
	})
	return obj
}

func (r *Runner) luaExec(l *lua.State) int {
	text := lua.CheckString(l, 1)
	out, err := r.term.Execute(text)
	if err != nil {
		l.PushNil()
		l.PushString(err.Error())
		return 2
	}
	l.PushString(out)
	return 1
}

func (r *Runner) luaPush(l *lua.State) int {
	r.term.PushCommand(lua.CheckString(l, 1))
	return 0
}

func (r *Runner) luaComplete(l *lua.State) int {
	pushList(l, r.term.GenerateAutocompleteList(lua.OptString(l, 1, "")))
	return 1
}

func (r *Runner) luaObjects(l *lua.State) int {
	pushList(l, r.term.Objects().Names())
	return 1
}

func (r *Runner) luaPrint(l *lua.State) int {
	n := l.Top()
	for i := 1; i <= n; i++ {
		if i > 1 {
			r.out.WriteByte('\t')
		}
		if s, ok := l.ToString(i); ok {
			r.out.WriteString(s)
			continue
		}
		switch l.TypeOf(i) {
		case lua.TypeNil:
			r.out.WriteString("nil")
		case lua.TypeBoolean:
			fmt.Fprint(r.out, l.ToBoolean(i))
		default:
			r.out.WriteString(lua.TypeNameOf(l, i))
		}
	}
	r.out.WriteByte('\n')
	return 0
}

func pushList(l *lua.State, items []string) {
	l.CreateTable(len(items), 0)
	for i, s := range items {
		l.PushString(s)
		l.RawSetInt(-2, i+1)
	}
}
