package simulation

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadDelay is how long the config file must stay quiet before it is reloaded.
const ReloadDelay = 100 * time.Millisecond

// ConfigWatcher reloads the configuration file whenever it changes on disk.
// Bursts of events (editors write, truncate and rename) are collapsed into one reload.
type ConfigWatcher struct {
	watcher    *fsnotify.Watcher
	configFile string
	schemaFile string

	Updates chan *Config
	Errors  chan error
	closeCh chan struct{}
	doneCh  chan struct{}
	once    sync.Once
}

// WatchConfig starts watching configFile. The parent directory is watched rather than the file
// itself so that atomic replace-by-rename keeps being seen.
func WatchConfig(configFile, schemaFile string) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	cw := &ConfigWatcher{
		watcher:    w,
		configFile: abs,
		schemaFile: schemaFile,
		Updates:    make(chan *Config, 1),
		Errors:     make(chan error, 1),
		closeCh:    make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	go cw.run()
	return cw, nil
}

// Close stops the watcher. It is safe to call more than once.
func (cw *ConfigWatcher) Close() error {
	var err error
	cw.once.Do(func() {
		close(cw.closeCh)
		err = cw.watcher.Close()
		<-cw.doneCh
		close(cw.Updates)
		close(cw.Errors)
	})
	return err
}

func (cw *ConfigWatcher) run() {
	defer close(cw.doneCh)

	timer := time.NewTimer(ReloadDelay)
	timer.Stop()

	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cw.configFile {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(ReloadDelay)

		case <-timer.C:
			cw.reload()

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.publishError(err)

		case <-cw.closeCh:
			timer.Stop()
			return
		}
	}
}

func (cw *ConfigWatcher) reload() {
	cfg, err := LoadConfig(cw.configFile, cw.schemaFile)
	if err != nil {
		cw.publishError(err)
		return
	}
	// Keep only the newest config if the consumer lags behind.
	select {
	case <-cw.Updates:
	default:
	}
	select {
	case cw.Updates <- cfg:
	case <-cw.closeCh:
	}
}

func (cw *ConfigWatcher) publishError(err error) {
	select {
	case cw.Errors <- err:
	default:
		// an unread error is already pending
	}
}
