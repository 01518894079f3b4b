package scene

import "errors"

var (
	ErrInvalidName          = errors.New("invalid entity name")
	ErrDuplicateName        = errors.New("entity name already in use")
	ErrEntityNotFound       = errors.New("entity not found")
	ErrNotAChild            = errors.New("entity is not a child")
	ErrInvalidSpace         = errors.New("invalid space")
	ErrNilEntity            = errors.New("component needs an owning entity")
	ErrUnknownComponentType = errors.New("unknown component type")
	ErrDuplicateType        = errors.New("component type already registered")
	ErrEntityDestroyed      = errors.New("entity destroyed")
)
