package bus

import "errors"

var (
	ErrEmptyEventType = errors.New("event type is empty")
	ErrNilHandler     = errors.New("handler is nil")
	ErrNilEvent       = errors.New("event is nil")
)
