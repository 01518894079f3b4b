package terminal

import (
	"strings"
	"unicode"
)

// GenerateAutocompleteList returns the candidates for the word being typed
// at the end of partial:
//
//   - the object name, from all registered objects;
//   - the command name, from the commands the object has;
//   - the first argument of set, from the attributes the object has.
//
// Any other position has no candidates.
func (t *Terminal) GenerateAutocompleteList(partial string) []string {
	words := strings.Fields(partial)
	trailing := partial == "" || unicode.IsSpace(rune(partial[len(partial)-1]))

	// index of the word being completed and its prefix so far
	index := len(words)
	prefix := ""
	if !trailing {
		index = len(words) - 1
		prefix = words[index]
	}

	if index == 0 {
		return t.objects.Autocomplete(prefix)
	}

	obj, ok := t.FindObject(words[0])
	if !ok {
		return nil
	}

	if index == 1 {
		return t.commands.Matches(prefix).Filter(obj.HasCommand).Collect()
	}

	if index == 2 && words[1] == SetCommand && obj.HasCommand(SetCommand) {
		return t.attributes.Matches(prefix).Filter(obj.HasAttribute).Collect()
	}
	return nil
}

// CommonPrefix returns the longest prefix shared by all candidates.
func CommonPrefix(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	prefix := candidates[0]
	for _, c := range candidates[1:] {
		for !strings.HasPrefix(c, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}
