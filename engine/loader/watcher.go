package loader

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// startWatcher watches the asset directory and reloads cached textures whose files change.
func (l *loader) startWatcher() error {
	dir := l.backend.Dir()
	if dir == "" {
		return errors.New("backend is not a directory")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	l.watcher = w

	go l.watchLoop(w)
	return nil
}

func (l *loader) watchLoop(w *fsnotify.Watcher) {
	for {
		select {
		case <-l.closed:
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Base(event.Name)
			if tex := l.Get(name); tex != nil {
				log.Printf("[Loader] %s changed, reloading", name)
				l.schedule(tex)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("[Loader] watcher error: %v", err)
		}
	}
}
