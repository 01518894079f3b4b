package scene

import (
	"fmt"
	"strings"
)

// Space is the frame of reference of a relative translation or rotation.
type Space int

const (
	// SpaceLocal uses the entity's own orientation.
	SpaceLocal Space = iota
	// SpaceParent uses the parent's orientation.
	SpaceParent
	// SpaceGlobal uses world axes.
	SpaceGlobal
)

func (s Space) String() string {
	switch s {
	case SpaceLocal:
		return "local"
	case SpaceParent:
		return "parent"
	case SpaceGlobal:
		return "global"
	default:
		return fmt.Sprintf("space(%d)", int(s))
	}
}

// ParseSpace accepts "local", "parent" and "global" in any case.
func ParseSpace(s string) (Space, error) {
	switch strings.ToLower(s) {
	case "local":
		return SpaceLocal, nil
	case "parent":
		return SpaceParent, nil
	case "global", "world":
		return SpaceGlobal, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSpace, s)
}
