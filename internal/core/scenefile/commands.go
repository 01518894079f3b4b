package scenefile

import (
	"fmt"
	"strings"

	"github.com/zeusync/zengine/internal/core/scene"
	"github.com/zeusync/zengine/internal/core/terminal"
)

// ObjectName is the name of the scene command object.
const ObjectName = "scene"

// Install registers the "scene" object on the scene's terminal:
//
//	scene save <file> | scene load <file>
//	scene clear | scene tree | scene entities | scene types
func Install(s *scene.Scene) *terminal.Object {
	obj := terminal.NewObject(s.Terminal(), ObjectName)
	obj.RegisterCommand("save", func(args []string) (string, error) {
		if len(args) == 0 {
			return "", fmt.Errorf("%w: save <file>", terminal.ErrMissingArgument)
		}
		if err := SaveFile(s, args[0]); err != nil {
			return "", err
		}
		return "saved " + args[0], nil
	})
	obj.RegisterCommand("load", func(args []string) (string, error) {
		if len(args) == 0 {
			return "", fmt.Errorf("%w: load <file>", terminal.ErrMissingArgument)
		}
		if err := LoadFile(s, args[0]); err != nil {
			return "", err
		}
		return fmt.Sprintf("loaded %s (%d entities)", args[0], s.Registry().Len()), nil
	})
	obj.RegisterCommand("clear", func([]string) (string, error) {
		s.Clear()
		return "", nil
	})
	obj.RegisterCommand("tree", func([]string) (string, error) {
		return strings.TrimSuffix(s.Root().TreeToString(), "\n"), nil
	})
	obj.RegisterCommand("entities", func([]string) (string, error) {
		return strings.Join(s.Registry().Names(), " "), nil
	})
	obj.RegisterCommand("types", func([]string) (string, error) {
		return strings.Join(s.Factory().Types(), " "), nil
	})
	return obj
}
