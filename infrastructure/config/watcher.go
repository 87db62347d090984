package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the write bursts editors produce on save.
const reloadDebounce = 100 * time.Millisecond

// Watcher reloads a configuration file when it changes on disk.
type Watcher struct {
	path   string
	loader *Loader

	mu      sync.Mutex
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the given config file. The file must
// load successfully before watching starts.
func NewWatcher(path string, loader *Loader) *Watcher {
	if loader == nil {
		loader = NewLoader()
	}
	return &Watcher{
		path:   path,
		loader: loader,
	}
}

// Watch blocks until ctx is cancelled, invoking onChange with the newly
// loaded configuration after every successful reload. Files that fail to
// reload are reported through onError (if non-nil) and the previous
// configuration stays in effect.
func (w *Watcher) Watch(ctx context.Context, onChange func(*Config), onError func(error)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	w.mu.Lock()
	w.watcher = fw
	w.mu.Unlock()

	defer func() {
		_ = fw.Close()
		w.mu.Lock()
		w.watcher = nil
		w.mu.Unlock()
	}()

	// Watch the directory rather than the file: editors replace files
	// on save, which detaches a direct file watch.
	absPath, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}
	if err := fw.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch path: %w", err)
	}

	var debounce *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Name != absPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			cfg, lerr := w.loader.LoadFile(absPath)
			if lerr != nil {
				if onError != nil {
					onError(lerr)
				}
				continue
			}
			if onChange != nil {
				onChange(cfg)
			}

		case werr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(werr)
			}
		}
	}
}
