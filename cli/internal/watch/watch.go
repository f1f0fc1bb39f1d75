// Package watch reruns a callback when any of a set of files is written.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/satishbabariya/frm-go/internal/debug"
)

// DefaultDebounce is how long a burst of writes is coalesced for.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches files for writes.
type Watcher struct {
	files    map[string]bool
	callback func(changed string) error
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher watches files and calls callback with the path of the file
// that changed. The directories of the files are watched so that editors
// replacing a file on save are still seen.
func NewWatcher(files []string, callback func(changed string) error) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		files:    make(map[string]bool, len(files)),
		callback: callback,
		watcher:  fw,
		debounce: DefaultDebounce,
	}
	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to get absolute path: %w", err)
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch directory: %w", err)
		}
		dirs[dir] = true
	}
	return w, nil
}

// SetDebounce changes the debounce interval.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run blocks until ctx is done, calling the callback after each debounced
// burst of writes. Callback errors are reported through onError and do not
// stop the watcher.
func (w *Watcher) Run(ctx context.Context, onError func(error)) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var (
		pending string
		fire    <-chan time.Time
	)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			path, err := filepath.Abs(event.Name)
			if err != nil || !w.files[path] {
				continue
			}
			debug.Debug("file changed", "path", path, "op", event.Op.String())
			pending = path
			timer.Reset(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.callback(pending); err != nil && onError != nil {
				onError(err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}

		case <-ctx.Done():
			return nil
		}
	}
}
