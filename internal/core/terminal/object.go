package terminal

import (
	"fmt"
	"slices"

	"github.com/zeusync/zengine/internal/core/observability/log"
	"github.com/zeusync/zengine/internal/core/token"
)

// SetCommand is the command every object with attributes answers to:
// "<object> set <attribute> <value...>".
const SetCommand = "set"

// Func is a command or attribute callback. A non-empty string is the
// command's output; an error is reported as "Error: <msg>" output.
type Func func(args []string) (string, error)

// Object gives its owner a runtime table of named commands and attributes.
// Embed it (as a pointer) in anything that should be scriptable. It must be
// closed when the owner is destroyed so the Terminal stops routing to it.
type Object struct {
	terminal   *Terminal
	handle     Handle
	name       string
	commands   map[token.ID]Func
	attributes map[token.ID]Func
	logger     log.Log
	closed     bool
}

// NewObject creates an object and registers it with t under name.
func NewObject(t *Terminal, name string) *Object {
	o := &Object{
		terminal:   t,
		name:       name,
		commands:   make(map[token.ID]Func),
		attributes: make(map[token.ID]Func),
		logger:     t.logger.With(log.String("object", name)),
	}
	o.handle = t.registerObject(o)
	return o
}

func (o *Object) Name() string {
	return o.name
}

func (o *Object) ObjectID() token.ID {
	return o.handle.ID
}

func (o *Object) Handle() Handle {
	return o.handle
}

func (o *Object) Terminal() *Terminal {
	return o.terminal
}

// Closed reports whether Close has been called.
func (o *Object) Closed() bool {
	return o.closed
}

// RegisterCommand binds fn to name. If the object already has a command with
// that name the first registration is kept and fn is ignored.
func (o *Object) RegisterCommand(name string, fn Func) token.ID {
	id := o.terminal.commands.Register(name)
	if _, ok := o.commands[id]; ok {
		return id
	}
	o.terminal.retain(o.terminal.commandRefs, id)
	o.commands[id] = fn
	return id
}

// RegisterAttribute binds fn to attribute name and makes sure the object
// answers to the generic set command. First registration wins.
func (o *Object) RegisterAttribute(name string, fn Func) token.ID {
	id := o.terminal.attributes.Register(name)
	if _, ok := o.attributes[id]; !ok {
		o.terminal.retain(o.terminal.attributeRefs, id)
		o.attributes[id] = fn
	}
	o.RegisterCommand(SetCommand, o.set)
	return id
}

// UnregisterCommand removes a command by name. It reports whether the
// object had it.
func (o *Object) UnregisterCommand(name string) bool {
	id, err := o.terminal.commands.FindID(name)
	if err != nil {
		return false
	}
	if _, ok := o.commands[id]; !ok {
		return false
	}
	delete(o.commands, id)
	o.terminal.release(o.terminal.commands, o.terminal.commandRefs, id)
	return true
}

// UnregisterAttribute removes an attribute by name. The set command stays
// registered.
func (o *Object) UnregisterAttribute(name string) bool {
	id, err := o.terminal.attributes.FindID(name)
	if err != nil {
		return false
	}
	if _, ok := o.attributes[id]; !ok {
		return false
	}
	delete(o.attributes, id)
	o.terminal.release(o.terminal.attributes, o.terminal.attributeRefs, id)
	return true
}

func (o *Object) HasCommand(name string) bool {
	id, ok := o.terminal.commands.Lookup(name)
	if !ok {
		return false
	}
	_, has := o.commands[id]
	return has
}

func (o *Object) HasAttribute(name string) bool {
	id, ok := o.terminal.attributes.Lookup(name)
	if !ok {
		return false
	}
	_, has := o.attributes[id]
	return has
}

// CommandNames returns the object's command names, sorted.
func (o *Object) CommandNames() []string {
	return o.names(o.terminal.commands, o.commands)
}

// AttributeNames returns the object's attribute names, sorted.
func (o *Object) AttributeNames() []string {
	return o.names(o.terminal.attributes, o.attributes)
}

// RunCommand invokes the command bound to id. It reports false if the object
// has no such command.
func (o *Object) RunCommand(id token.ID, args []string) (string, bool) {
	fn, ok := o.commands[id]
	if !ok {
		o.logger.Warn("command not found",
			log.Uint32("command_id", uint32(id)),
			log.String("command", o.terminal.commands.FindName(id)))
		return "", false
	}
	out, err := fn(args)
	if err != nil {
		o.logger.Warn("command failed",
			log.String("command", o.terminal.commands.FindName(id)),
			log.Error(err))
		return "Error: " + err.Error(), true
	}
	return out, true
}

// Close unregisters the object and all its commands and attributes.
// Calling it more than once is a no-op.
func (o *Object) Close() {
	if o.closed {
		return
	}
	for id := range o.commands {
		o.terminal.release(o.terminal.commands, o.terminal.commandRefs, id)
	}
	for id := range o.attributes {
		o.terminal.release(o.terminal.attributes, o.terminal.attributeRefs, id)
	}
	clear(o.commands)
	clear(o.attributes)
	o.terminal.unregisterObject(o)
	o.closed = true
}

// set forwards "set <attribute> <value...>" to the attribute callback.
// Unknown attributes produce no output.
func (o *Object) set(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: set <attribute> <value...>", ErrMissingArgument)
	}
	id, ok := o.terminal.attributes.Lookup(args[0])
	if !ok {
		o.logger.Debug("attribute not registered", log.String("attribute", args[0]))
		return "", nil
	}
	fn, ok := o.attributes[id]
	if !ok {
		o.logger.Debug("object has no such attribute", log.String("attribute", args[0]))
		return "", nil
	}
	return fn(args[1:])
}

func (o *Object) names(tbl *token.Table, m map[token.ID]Func) []string {
	out := make([]string, 0, len(m))
	for id := range m {
		out = append(out, tbl.FindName(id))
	}
	slices.Sort(out)
	return out
}
