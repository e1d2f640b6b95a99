// Package watch reports changed sheet descriptions so they can be rebuilt.
package watch

import (
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ivlev/anim2c/internal/system"
)

// Debounce is the quiet time a file needs before it is reported. An
// Aseprite export usually writes a file more than once.
const Debounce = 100 * time.Millisecond

type Watcher struct {
	Events chan string
	Errors chan error

	watcher *fsnotify.Watcher
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// New watches the given directories for .json changes.
func New(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		watcher: w,
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher. Events and Errors are closed once the
// event loop has exited.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer func() {
		close(w.Events)
		close(w.Errors)
		close(w.done)
	}()

	// last write seen per file; a file is reported once it has been
	// quiet for Debounce
	pending := make(map[string]time.Time)
	timer := time.NewTimer(Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !system.IsSheetFile(event.Name) {
				continue
			}
			pending[event.Name] = time.Now()
			timer.Reset(Debounce)
		case <-timer.C:
			ready, wait := settled(pending, time.Now())
			for _, name := range ready {
				delete(pending, name)
				select {
				case w.Events <- name:
				case <-w.closeCh:
					return
				}
			}
			if wait > 0 {
				timer.Reset(wait)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default: // one pending error is enough
			}
		case <-w.closeCh:
			return
		}
	}
}

// settled returns the files quiet for at least Debounce, sorted, and how
// long until the next pending file settles (zero when none is left).
func settled(pending map[string]time.Time, now time.Time) ([]string, time.Duration) {
	var ready []string
	var wait time.Duration
	for name, last := range pending {
		left := Debounce - now.Sub(last)
		if left <= 0 {
			ready = append(ready, name)
			continue
		}
		if wait == 0 || left < wait {
			wait = left
		}
	}
	sort.Strings(ready)
	return ready, wait
}
