// Command engine runs the frame loop and reads terminal commands from
// stdin, one per line. A line starting with '?' lists the completions of
// the rest of the line; "?cube " lists what may follow "cube". End of input
// quits the engine.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/zengine/internal/engine"
	"github.com/zeusync/zengine/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to the engine config file")
	console := flag.Bool("console", true, "read commands from stdin")
	flag.Parse()

	if err := run(*configPath, *console); err != nil {
		fmt.Fprintln(os.Stderr, "engine:", err)
		os.Exit(1)
	}
}

func run(configPath string, console bool) error {
	e, cleanup, err := injector.InitializeEngine(configPath, os.Stdout)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := e.Start(ctx); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return e.Run(ctx)
	})
	g.Go(func() error {
		return watchSignals(ctx, cancel)
	})
	if console {
		g.Go(func() error {
			return readConsole(ctx, os.Stdin, e)
		})
	}
	return g.Wait()
}

func watchSignals(ctx context.Context, cancel context.CancelFunc) error {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stopCh)

	select {
	case <-ctx.Done():
	case <-stopCh:
		cancel()
	}
	return nil
}

// readConsole submits the lines of r until ctx is done or r is exhausted.
// The scanning goroutine is left blocked on r when ctx ends first.
func readConsole(ctx context.Context, r io.Reader, e *engine.Engine) error {
	lines := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errCh <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			e.Quit()
			return err
		case line := <-lines:
			if cmd := consoleCommand(line); cmd != "" {
				e.Submit(cmd)
			}
		}
	}
}

// consoleCommand turns a console line into command text. A completion
// request keeps its trailing whitespace, which decides between completing
// the last word and listing the next one.
func consoleCommand(line string) string {
	partial, ok := strings.CutPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), "?")
	if !ok {
		return strings.TrimSpace(line)
	}
	if partial == "" || unicode.IsSpace(rune(partial[len(partial)-1])) {
		return strings.TrimSpace("terminal next " + partial)
	}
	return "terminal complete " + partial
}
