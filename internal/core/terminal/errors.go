package terminal

import "errors"

var (
	// Parse errors

	ErrEmptyCommand   = errors.New("empty command")
	ErrMissingCommand = errors.New("missing command name")

	// Lookup errors

	ErrObjectNotFound    = errors.New("object not found")
	ErrCommandNotFound   = errors.New("command not found")
	ErrAttributeNotFound = errors.New("attribute not found")
	ErrObjectGone        = errors.New("object no longer exists")

	// Argument errors

	ErrMissingArgument = errors.New("missing argument")
)
