package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zeusync/zengine/internal/core/observability/log"
)

// RunScript executes the command script at path. See RunScriptReader.
func (t *Terminal) RunScript(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	out, err := t.RunScriptReader(f)
	if err != nil {
		return out, fmt.Errorf("run script %s: %w", path, err)
	}
	return out, nil
}

// RunScriptReader parses every line of r first and then runs the parsed
// commands in order. Blank lines and lines that do not parse are skipped.
// For each command that ran the result contains "> <command>" followed by
// its output.
func (t *Terminal) RunScriptReader(r io.Reader) (string, error) {
	var cmds []*Command
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		cmd, err := t.ParseCommand(line)
		if err != nil {
			t.logger.Debug("skipping script line",
				log.Int("line", lineNo),
				log.String("text", line),
				log.Error(err))
			continue
		}
		cmds = append(cmds, cmd)
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	var out strings.Builder
	for _, cmd := range cmds {
		if !cmd.Run() {
			continue
		}
		out.WriteString("> ")
		out.WriteString(cmd.String())
		out.WriteByte('\n')
		appendLine(&out, cmd.Output)
	}
	return out.String(), nil
}
