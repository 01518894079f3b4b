package scene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zeusync/zengine/internal/core/ptree"
	"github.com/zeusync/zengine/internal/core/terminal"
	"github.com/zeusync/zengine/pkg/math3d"
)

// ObjectNameSeparator joins an entity name and a component suffix. Entity
// names may not contain it.
const ObjectNameSeparator = "."

// ObjectNameFor is the command object name of a component of owner:
// "<entity>.<suffix>".
func ObjectNameFor(owner *Entity, suffix string) string {
	return owner.Name() + ObjectNameSeparator + suffix
}

// FloatAttribute returns a setter storing one number into dst.
func FloatAttribute(dst *float32) terminal.Func {
	return func(args []string) (string, error) {
		if len(args) == 0 {
			return "", terminal.ErrMissingArgument
		}
		f, err := math3d.ParseFloat(args[0])
		if err != nil {
			return "", err
		}
		*dst = f
		return "", nil
	}
}

// Vec3Attribute returns a setter storing three numbers into dst.
func Vec3Attribute(dst *math3d.Vec3) terminal.Func {
	return func(args []string) (string, error) {
		v, err := math3d.ParseVec3(args)
		if err != nil {
			return "", err
		}
		*dst = v
		return "", nil
	}
}

// StringAttribute returns a setter storing the joined arguments into dst.
func StringAttribute(dst *string) terminal.Func {
	return func(args []string) (string, error) {
		if len(args) == 0 {
			return "", terminal.ErrMissingArgument
		}
		*dst = strings.Join(args, " ")
		return "", nil
	}
}

// BoolAttribute returns a setter storing a flag into dst.
func BoolAttribute(dst *bool) terminal.Func {
	return func(args []string) (string, error) {
		if len(args) == 0 {
			return "", terminal.ErrMissingArgument
		}
		b, err := strconv.ParseBool(args[0])
		if err != nil {
			return "", fmt.Errorf("invalid flag %q", args[0])
		}
		*dst = b
		return "", nil
	}
}

// TreePath joins a component path and a key.
func TreePath(path, key string) string {
	if path == "" {
		return key
	}
	return path + ptree.Separator + key
}
