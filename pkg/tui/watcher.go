package tui

import (
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 200 * time.Millisecond

// Sender delivers messages into a running program. *tea.Program
// satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// StartWatcher watches the data directory for changes made by other
// processes and sends ReloadMsg.
func StartWatcher(root string, program Sender) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(root); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		var debounceTimer *time.Timer

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !watchedFile(event.Name) {
					continue
				}

				// Debounce: wait after the last change
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(watchDebounce, func() {
					select {
					case <-done:
					default:
						program.Send(ReloadMsg{})
					}
				})

			case <-watcher.Errors:
				// Ignore watcher errors silently

			case <-done:
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				return
			}
		}
	}()

	cleanup := func() {
		close(done)
		watcher.Close()
		<-stopped
	}

	return cleanup, nil
}

// watchedFile reports whether a change to name can affect stored data.
// Logs, temp files and the config file are skipped.
func watchedFile(name string) bool {
	base := filepath.Base(name)
	switch {
	case strings.HasPrefix(base, "."):
		return false
	case strings.HasSuffix(base, ".log"), strings.HasSuffix(base, ".tmp"):
		return false
	case strings.HasSuffix(base, ".json"):
		return true
	case strings.HasPrefix(base, "trackline.db"):
		return true
	}
	return false
}
