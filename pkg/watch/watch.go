package watch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Payloads follows the payload log file and copies every new line to out
// until ctx is done. The file and its directory are created when missing.
func Payloads(ctx context.Context, path string, out io.Writer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o644)
	if err != nil {
		return fmt.Errorf("log file %s not found, make sure the MCP client is running: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	fmt.Fprintf(out, "Watching %s for new MCP payload logs...\n", path)
	fmt.Fprintln(out, strings.Repeat("=", 80))

	reader := bufio.NewReader(f)
	var partial string
	flush := func() error {
		for {
			line, err := reader.ReadString('\n')
			partial += line
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, strings.TrimRight(partial, "\r\n"))
			partial = ""
		}
	}

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nStopped watching log file.")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) {
				if err := flush(); err != nil {
					return err
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
