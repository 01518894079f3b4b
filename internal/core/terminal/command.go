package terminal

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/zeusync/zengine/internal/core/observability/log"
	"github.com/zeusync/zengine/internal/core/token"
)

// Command is one parsed invocation. It is created per call and run once.
type Command struct {
	terminal *Terminal
	target   Handle

	ObjectID    token.ID
	CommandID   token.ID
	ObjectName  string
	CommandName string
	Args        []string

	// Output holds the callback result after Run.
	Output string
	err    error
}

// ParseCommand tokenizes expression and resolves its object and command
// names. The object is resolved first; the command is only looked up if the
// object exists.
func (t *Terminal) ParseCommand(expression string) (*Command, error) {
	tokens, err := tokenize(expression)
	if err != nil {
		return nil, err
	}

	objectID, ok := t.objects.Lookup(tokens[0])
	if !ok {
		t.logger.Debug("object not found", log.String("object", tokens[0]))
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, tokens[0])
	}
	entry, ok := t.live[objectID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, tokens[0])
	}

	commandID, ok := t.commands.Lookup(tokens[1])
	if !ok {
		t.logger.Debug("command not found", log.String("object", tokens[0]), log.String("command", tokens[1]))
		return nil, fmt.Errorf("%w: %s", ErrCommandNotFound, tokens[1])
	}

	return &Command{
		terminal:    t,
		target:      Handle{ID: objectID, serial: entry.serial},
		ObjectID:    objectID,
		CommandID:   commandID,
		ObjectName:  tokens[0],
		CommandName: tokens[1],
		Args:        tokens[2:],
	}, nil
}

// Run dispatches the command to its object. It reports false, leaving
// Output empty, if the object was closed after parsing or does not have the
// command.
func (c *Command) Run() bool {
	obj, ok := c.terminal.Lookup(c.target)
	if !ok {
		c.err = fmt.Errorf("%w: %s", ErrObjectGone, c.ObjectName)
		c.terminal.logger.Warn("command target vanished",
			log.String("object", c.ObjectName),
			log.String("command", c.CommandName))
		return false
	}
	out, ok := obj.RunCommand(c.CommandID, c.Args)
	c.Output = out
	if !ok {
		c.err = fmt.Errorf("%w: %s %s", ErrCommandNotFound, c.ObjectName, c.CommandName)
		return false
	}
	return true
}

// Err returns why the last Run failed, if it did.
func (c *Command) Err() error {
	return c.err
}

// String renders the command back into the text grammar.
func (c *Command) String() string {
	parts := make([]string, 0, 2+len(c.Args))
	parts = append(parts, c.ObjectName, c.CommandName)
	parts = append(parts, c.Args...)
	return strings.Join(parts, " ")
}

// tokenize splits expression on whitespace. A '#' that starts a token
// begins a comment that runs to the end of the line.
func tokenize(expression string) ([]string, error) {
	var (
		tokens []string
		cur    strings.Builder
		inTok  bool
	)
	flush := func() {
		if inTok {
			tokens = append(tokens, cur.String())
			cur.Reset()
			inTok = false
		}
	}

scan:
	for _, r := range expression {
		switch {
		case unicode.IsSpace(r):
			flush()
		case r == '#' && !inTok:
			break scan
		default:
			cur.WriteRune(r)
			inTok = true
		}
	}
	flush()

	switch len(tokens) {
	case 0:
		return nil, ErrEmptyCommand
	case 1:
		return nil, fmt.Errorf("%w: %s", ErrMissingCommand, tokens[0])
	}
	return tokens, nil
}
