// Package terminal implements the string command system: a directory of
// scriptable objects, a command queue drained once per frame, script
// execution and context-sensitive autocomplete.
//
// A command line has the form
//
//	<object> <command> [arg]* [# comment]
//
// and is dispatched to the callback the named object registered for the
// named command. Attributes are set through the built-in set command:
//
//	cube set position 1 2 3
//
// The Terminal never owns objects. Objects register on creation and must
// unregister (Object.Close) before they are dropped; commands addressed to
// an object that is gone fail quietly.
package terminal

import (
	"strings"

	"github.com/zeusync/zengine/internal/core/observability/log"
	"github.com/zeusync/zengine/internal/core/token"
	"github.com/zeusync/zengine/pkg/sequence"
)

// Handle is a weak reference to a registered object. A handle stays
// invalid once its object is closed, even if the object id is recycled.
type Handle struct {
	ID     token.ID
	serial uint64
}

// IsZero reports whether the handle was never issued.
func (h Handle) IsZero() bool {
	return h.serial == 0
}

type liveObject struct {
	object *Object
	serial uint64
}

// Terminal is the registry of objects, commands and attributes plus the
// pending command queue. It is not safe for concurrent use; the frame loop
// owns it.
type Terminal struct {
	objects    *token.Table
	commands   *token.Table
	attributes *token.Table

	live   map[token.ID]liveObject
	serial uint64

	// number of objects holding each command/attribute token
	commandRefs   map[token.ID]int
	attributeRefs map[token.ID]int

	queue  *sequence.Queue[string]
	logger log.Log
}

// New creates an empty terminal. Token options apply to all three tables.
func New(logger log.Log, opts ...token.Option) *Terminal {
	logger = logger.With(log.String("component", "terminal"))
	return &Terminal{
		objects:       token.NewTable("objects", logger, opts...),
		commands:      token.NewTable("commands", logger, opts...),
		attributes:    token.NewTable("attributes", logger, opts...),
		live:          make(map[token.ID]liveObject),
		commandRefs:   make(map[token.ID]int),
		attributeRefs: make(map[token.ID]int),
		queue:         sequence.NewQueue[string](),
		logger:        logger,
	}
}

func (t *Terminal) Objects() *token.Table    { return t.objects }
func (t *Terminal) Commands() *token.Table   { return t.commands }
func (t *Terminal) Attributes() *token.Table { return t.attributes }
func (t *Terminal) Logger() log.Log          { return t.logger }

// Lookup resolves a handle. It fails once the object has been closed.
func (t *Terminal) Lookup(h Handle) (*Object, bool) {
	entry, ok := t.live[h.ID]
	if !ok || entry.serial != h.serial {
		return nil, false
	}
	return entry.object, true
}

// FindObject returns the live object registered under name.
func (t *Terminal) FindObject(name string) (*Object, bool) {
	id, ok := t.objects.Lookup(name)
	if !ok {
		return nil, false
	}
	entry, ok := t.live[id]
	if !ok {
		return nil, false
	}
	return entry.object, true
}

// ObjectCount returns the number of live objects.
func (t *Terminal) ObjectCount() int {
	return len(t.live)
}

// PushCommand appends text to the pending queue.
func (t *Terminal) PushCommand(text string) {
	t.queue.Enqueue(text)
}

// Pending returns the number of queued commands.
func (t *Terminal) Pending() int {
	return t.queue.Len()
}

// ProcessCommandsQueue runs queued commands until the queue is empty,
// including commands pushed by the commands being run, and returns their
// non-empty outputs, one per line.
func (t *Terminal) ProcessCommandsQueue() string {
	var out strings.Builder
	for {
		text, ok := t.queue.Dequeue()
		if !ok {
			break
		}
		cmd, err := t.ParseCommand(text)
		if err != nil {
			t.logger.Warn("dropping queued command", log.String("text", text), log.Error(err))
			continue
		}
		cmd.Run()
		appendLine(&out, cmd.Output)
	}
	return out.String()
}

// Execute parses and runs text immediately.
func (t *Terminal) Execute(text string) (string, error) {
	cmd, err := t.ParseCommand(text)
	if err != nil {
		return "", err
	}
	if !cmd.Run() {
		return cmd.Output, cmd.err
	}
	return cmd.Output, nil
}

func (t *Terminal) registerObject(o *Object) Handle {
	id := t.objects.Register(o.name)
	if prev, ok := t.live[id]; ok && prev.object != o {
		t.logger.Warn("object name reused, previous object is no longer reachable",
			log.String("object", o.name))
	}
	t.serial++
	t.live[id] = liveObject{object: o, serial: t.serial}
	t.logger.Debug("object registered", log.String("object", o.name), log.Uint32("id", uint32(id)))
	return Handle{ID: id, serial: t.serial}
}

func (t *Terminal) unregisterObject(o *Object) {
	entry, ok := t.live[o.handle.ID]
	if !ok || entry.object != o {
		return
	}
	delete(t.live, o.handle.ID)
	t.objects.Unregister(o.name)
	t.logger.Debug("object unregistered", log.String("object", o.name))
}

func (t *Terminal) retain(refs map[token.ID]int, id token.ID) {
	refs[id]++
}

// release drops one reference and frees the token once no object uses it.
func (t *Terminal) release(tbl *token.Table, refs map[token.ID]int, id token.ID) {
	refs[id]--
	if refs[id] > 0 {
		return
	}
	delete(refs, id)
	if name := tbl.FindName(id); name != "" {
		tbl.Unregister(name)
	}
}

func appendLine(b *strings.Builder, s string) {
	if s == "" {
		return
	}
	b.WriteString(s)
	if !strings.HasSuffix(s, "\n") {
		b.WriteByte('\n')
	}
}
