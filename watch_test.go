package main

import (
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"

	"github.com/ardanlabs/ffi-bindgen/config"
)

func TestFollow(t *testing.T) {
	configPath := setup(t, "linux/amd64")
	dir := filepath.Dir(configPath)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatal(err)
	}
	defer watcher.Close()

	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatal(err)
	}

	watched, err := follow(watcher, cfg, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, name := range []string{"bindgen.yaml", "linux.json", "calc.h"} {
		if !watched[filepath.Join(dir, name)] {
			t.Errorf("expected %s to be watched", name)
		}
	}
	if len(watched) != 3 {
		t.Errorf("expected 3 watched files, got %d", len(watched))
	}
	if list := watcher.WatchList(); len(list) != 1 || list[0] != dir {
		t.Errorf("expected only %s to be watched, got %v", dir, list)
	}

	// Moving the header elsewhere releases nothing the config still uses.
	other := t.TempDir()
	cfg.Platforms[0].Headers = []string{filepath.Join(other, "calc.h")}

	if watched, err = follow(watcher, cfg, watched); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !watched[filepath.Join(other, "calc.h")] || watched[filepath.Join(dir, "calc.h")] {
		t.Errorf("expected header to move to %s, got %v", other, watched)
	}
	if list := watcher.WatchList(); len(list) != 2 {
		t.Errorf("expected 2 watched directories, got %v", list)
	}
}
