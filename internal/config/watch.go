package config

import (
	"context"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the configuration whenever the file changes on disk and
// blocks until ctx is done. The directory is watched so editors that
// replace the file on save are still seen.
func (m *Manager) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(m.configPath)
	if err := m.fs.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		return err
	}
	log.Printf("Config: Watching %s for changes", m.configPath)

	target := filepath.Clean(m.configPath)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := m.Load(); err != nil {
				log.Printf("Config: Reload failed, keeping previous configuration: %v", err)
				continue
			}
			log.Printf("Config: Reloaded %s", m.configPath)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Config: Watch error: %v", err)
		}
	}
}
