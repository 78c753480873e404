package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const (
	firstCatalog  = "posts:\n  - id: first\n    date: 2024-01-01\n    title: First\n"
	secondCatalog = "posts:\n  - id: second\n    date: 2024-02-02\n    title: Second\n"
)

func writeCatalog(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// startWatch runs Watch in the background and returns the reload channel and a stop func
// that reports Watch's error.
func startWatch(t *testing.T, path string) (<-chan *Catalog, func() error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	reloaded := make(chan *Catalog, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, nil, func(c *Catalog) { reloaded <- c })
	}()
	// Give the watcher time to register the directory.
	time.Sleep(200 * time.Millisecond)
	return reloaded, func() error {
		cancel()
		return <-done
	}
}

func TestWatchReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	writeCatalog(t, path, firstCatalog)

	reloaded, stop := startWatch(t, path)
	writeCatalog(t, path, secondCatalog)

	select {
	case c := <-reloaded:
		if !c.Has("second") {
			t.Fatalf("expected reloaded catalog to contain 'second'")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for catalog reload")
	}
	if err := stop(); err != nil {
		t.Fatalf("watch returned error: %v", err)
	}
}

func TestWatchReloadsWhileFileKeepsChanging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	writeCatalog(t, path, firstCatalog)

	reloaded, stop := startWatch(t, path)
	defer stop()

	// Writes arrive faster than the debounce; the max delay still forces a reload.
	tick := time.NewTicker(watchDebounce / 2)
	defer tick.Stop()
	deadline := time.After(watchMaxDelay + 3*time.Second)
	for {
		select {
		case c := <-reloaded:
			if !c.Has("second") {
				t.Fatalf("expected reloaded catalog to contain 'second'")
			}
			return
		case <-tick.C:
			writeCatalog(t, path, secondCatalog)
		case <-deadline:
			t.Fatal("continuous writes starved the reload")
		}
	}
}

func TestWatchSkipsInvalidFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	writeCatalog(t, path, "posts: []\n")

	reloaded, stop := startWatch(t, path)
	writeCatalog(t, path, "posts:\n  - id: x\n    date: yesterday\n")

	select {
	case <-reloaded:
		t.Fatal("invalid catalog must not be delivered")
	case <-time.After(watchMaxDelay + 500*time.Millisecond):
	}
	if err := stop(); err != nil {
		t.Fatalf("watch returned error: %v", err)
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "catalog.yaml"), nil, func(*Catalog) {})
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}
