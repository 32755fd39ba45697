package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/opencode-ai/safemode/internal/logging"
)

// debounceDelay absorbs the bursts of writes editors produce when saving.
const debounceDelay = 200 * time.Millisecond

// Watcher watches a config file and hands freshly loaded documents to a
// callback. A load or validation failure keeps the previous configuration
// in force: a broken config file must never widen what is allowed.
type Watcher struct {
	path     string
	onChange func(*File)
	fsw      *fsnotify.Watcher
	done     chan struct{}
}

// Watch starts watching path. The parent directory is watched rather than
// the file itself, since most editors replace the file on save.
func Watch(path string, onChange func(*File)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{
		path:     path,
		onChange: onChange,
		fsw:      fsw,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
	default:
		close(w.done)
	}
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	log := logging.Component("config.watcher")

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != filepath.Base(w.path) {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
				timerC = timer.C
			} else {
				timer.Reset(debounceDelay)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("config watch error")

		case <-timerC:
			timer = nil
			timerC = nil
			w.reload(log)
		}
	}
}

// reload loads the file with a short exponential-backoff retry to ride out
// editors that truncate before writing. On persistent failure the previous
// snapshot stays in force.
func (w *Watcher) reload(log zerolog.Logger) {
	file, err := loadWithRetry(w.path)
	if err != nil {
		log.Warn().Err(err).Str("path", w.path).Msg("config reload failed, keeping previous configuration")
		return
	}
	log.Info().Str("path", w.path).Msg("config reloaded")
	w.onChange(file)
}

func loadWithRetry(path string) (*File, error) {
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(50*time.Millisecond),
		backoff.WithMaxInterval(500*time.Millisecond),
	), 4)

	return backoff.RetryWithData(func() (*File, error) {
		return Load(path)
	}, policy)
}
