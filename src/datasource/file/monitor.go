package file

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultSettle is how long the watched file must stay quiet before
// the handler fires. A single logical rewrite emits several Write
// events in quick succession; firing per event would run the pipeline
// against a half-written cache.
const defaultSettle = 500 * time.Millisecond

// Monitor watches a single cached raw-data file and invokes a handler
// after it is rewritten. Used by the CLI's watch mode to re-run the
// preparation pipeline when the acquisition layer refreshes its
// cache. The handler runs on the watch loop itself, so runs never
// overlap.
type Monitor struct {
	path    string
	watcher *fsnotify.Watcher
	settle  time.Duration
}

func NewMonitor(path string) (*Monitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: editors and cache writers
	// often replace the file rather than write it in place.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}
	return &Monitor{path: path, watcher: watcher, settle: defaultSettle}, nil
}

func (m *Monitor) Close() error {
	return m.watcher.Close()
}

// Watch blocks, calling handler once per burst of changes to the
// watched file: each matching event re-arms a settle timer, and the
// handler fires only after the file has been quiet for the settle
// window. It returns when the watcher is closed or fails.
func (m *Monitor) Watch(handler func(string)) error {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(m.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(m.settle)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(m.settle)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			handler(m.path)
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
