package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ardanlabs/ffi-bindgen/config"
	"github.com/ardanlabs/ffi-bindgen/logger"
)

// settle is how long the inputs must stay quiet before a rebuild starts.
// Editors often write a file in several steps.
const settle = 300 * time.Millisecond

// watchInputs regenerates the bindings whenever the config, a catalog or a
// header changes. Directories are watched rather than files so that
// editors replacing a file by rename are noticed. It only returns on a
// watcher failure.
func watchInputs(opts options, cfg *config.Config, log *logger.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched, err := follow(watcher, cfg, nil)
	if err != nil {
		return err
	}
	log.Infof("Watching %d files for changes", len(watched))

	timer := time.NewTimer(settle)
	timer.Stop()

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(ev.Name)] || ev.Op&fsnotify.Chmod == ev.Op {
				continue
			}
			log.Debugf("%s: %s", ev.Op, ev.Name)
			timer.Reset(settle)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorf("watcher: %v", err)

		case <-timer.C:
			next, err := loadConfig(opts)
			if err != nil {
				log.Errorf("loading config: %v", err)
				continue
			}
			cfg = next

			if watched, err = follow(watcher, cfg, watched); err != nil {
				return err
			}

			if err := run(context.Background(), cfg, log); err != nil {
				log.Errorf("generating bindings: %v", err)
			}
		}
	}
}

// follow points the watcher at the directories holding the inputs of cfg
// and returns the set of input files. Directories only watched for
// previous are released.
func follow(watcher *fsnotify.Watcher, cfg *config.Config, previous map[string]bool) (map[string]bool, error) {
	files := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, f := range cfg.Files() {
		f = filepath.Clean(f)
		files[f] = true
		dirs[filepath.Dir(f)] = true
	}

	old := make(map[string]bool)
	for f := range previous {
		old[filepath.Dir(f)] = true
	}

	for dir := range old {
		if !dirs[dir] {
			if err := watcher.Remove(dir); err != nil {
				return nil, fmt.Errorf("unwatching %s: %w", dir, err)
			}
		}
	}
	for dir := range dirs {
		if old[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	return files, nil
}
