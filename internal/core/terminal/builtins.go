package terminal

import (
	"fmt"
	"strings"
)

// BuiltinObjectName is the name of the object InstallBuiltins registers.
const BuiltinObjectName = "terminal"

// InstallBuiltins registers the "terminal" object with commands to inspect
// the registry and run scripts:
//
//	terminal help [object]
//	terminal objects [prefix]
//	terminal echo <text...>
//	terminal run-script <file>
//	terminal complete <partial...>
//	terminal next [word...]
//
// complete lists the candidates for the last word of the partial line. The
// command text loses trailing whitespace, so next lists the candidates for
// the word that follows the given words instead.
func (t *Terminal) InstallBuiltins() *Object {
	obj := NewObject(t, BuiltinObjectName)

	obj.RegisterCommand("help", func(args []string) (string, error) {
		if len(args) == 0 {
			return "usage: <object> <command> [arg]...\nobjects: " +
				strings.Join(t.objects.Names(), " "), nil
		}
		target, ok := t.FindObject(args[0])
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrObjectNotFound, args[0])
		}
		var b strings.Builder
		fmt.Fprintf(&b, "commands: %s", strings.Join(target.CommandNames(), " "))
		if attrs := target.AttributeNames(); len(attrs) > 0 {
			fmt.Fprintf(&b, "\nattributes: %s", strings.Join(attrs, " "))
		}
		return b.String(), nil
	})

	obj.RegisterCommand("objects", func(args []string) (string, error) {
		prefix := ""
		if len(args) > 0 {
			prefix = args[0]
		}
		return strings.Join(t.objects.Autocomplete(prefix), "\n"), nil
	})

	obj.RegisterCommand("echo", func(args []string) (string, error) {
		return strings.Join(args, " "), nil
	})

	obj.RegisterCommand("run-script", func(args []string) (string, error) {
		if len(args) == 0 {
			return "", fmt.Errorf("%w: run-script <file>", ErrMissingArgument)
		}
		return t.RunScript(args[0])
	})

	obj.RegisterCommand("complete", func(args []string) (string, error) {
		partial := strings.Join(args, " ")
		return strings.Join(t.GenerateAutocompleteList(partial), " "), nil
	})

	obj.RegisterCommand("next", func(args []string) (string, error) {
		partial := strings.Join(args, " ") + " "
		return strings.Join(t.GenerateAutocompleteList(partial), " "), nil
	})

	return obj
}
