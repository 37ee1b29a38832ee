package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pseudo/internal/driver"
)

func waitReport(t *testing.T, ch <-chan *driver.Report) *driver.Report {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("no report within 5s")
		return nil
	}
}

func TestWatchRediagnosesChangedFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.pseudo": "print 1\n",
		"b.pseudo": "print 2\n",
		"notes.md": "",
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reports := make(chan *driver.Report, 16)
	done := make(chan error, 1)
	go func() {
		done <- driver.Watch(ctx, dir, driver.WatchOptions{
			Debounce: 20 * time.Millisecond,
			OnReport: func(r *driver.Report) { reports <- r },
		})
	}()

	first := waitReport(t, reports)
	if len(first.Files) != 2 || first.HasErrors() {
		t.Fatalf("initial report = %+v", first.Files)
	}

	// изменения в чужих файлах не запускают анализ
	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "a.pseudo")
	if err := os.WriteFile(target, []byte("log \"open\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	second := waitReport(t, reports)
	if len(second.Files) != 1 || second.Files[0].Path != target || !second.HasErrors() {
		t.Fatalf("second report = %+v", second.Files)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchMissingRoot(t *testing.T) {
	err := driver.Watch(context.Background(), filepath.Join(t.TempDir(), "none"), driver.WatchOptions{})
	if !os.IsNotExist(err) {
		t.Fatalf("err = %v, want not-exist", err)
	}
}
