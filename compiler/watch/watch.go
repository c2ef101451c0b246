// Package watch re-runs generation when descriptor configuration files
// change. Events are debounced so editors that write in bursts trigger a
// single regeneration.
package watch

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period collected events wait for before the
// regeneration callback fires.
const DefaultDebounce = 150 * time.Millisecond

// Watcher triggers a callback when any watched path changes.
type Watcher struct {
	fw       *fsnotify.Watcher
	fn       func(context.Context) error
	debounce time.Duration
}

// New creates a watcher over the given paths. fn runs after each debounced
// burst of changes; a returned error stops the watch loop.
func New(paths []string, fn func(context.Context) error) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if err := fw.Add(p); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return &Watcher{fw: fw, fn: fn, debounce: DefaultDebounce}, nil
}

// WithDebounce sets the quiet period before the callback fires.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// Run watches until the context is canceled or the callback fails. Only
// writes, creates, removes and renames schedule a regeneration; chmod-only
// events are ignored.
func (w *Watcher) Run(ctx context.Context) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			pending = true
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			return err
		case <-timer.C:
			pending = false
			if err := w.fn(ctx); err != nil {
				return err
			}
		}
	}
}

// Close releases the underlying file watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
