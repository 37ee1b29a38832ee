package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchOptions configures Watch.
type WatchOptions struct {
	Options
	Extensions []string // nil means DefaultExtensions
	// Debounce collects changes arriving within this window into one run.
	Debounce time.Duration
	// OnReport receives the initial report and one per batch of changes.
	OnReport func(*Report)
}

// Watch diagnoses root, then re-diagnoses changed files until ctx is done.
// root may be a file or a directory; new subdirectories are picked up.
func Watch(ctx context.Context, root string, opts WatchOptions) error {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	info, err := os.Stat(root)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	single := ""
	if info.IsDir() {
		if err := addTree(w, root); err != nil {
			return err
		}
	} else {
		single = filepath.Clean(root)
		if err := w.Add(filepath.Dir(single)); err != nil {
			return fmt.Errorf("watch %s: %w", root, err)
		}
	}
	matches := func(path string) bool {
		if single != "" {
			return filepath.Clean(path) == single
		}
		return slices.Contains(exts, strings.ToLower(filepath.Ext(path)))
	}

	files, err := ListFiles(root, exts)
	if err != nil {
		return err
	}
	if err := watchRun(ctx, files, opts); err != nil {
		return err
	}

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			before := len(pending)
			if ev.Op&fsnotify.Create != 0 && single == "" {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					if err := addTree(w, ev.Name); err != nil {
						return err
					}
					// файлы, созданные до подписки, событий не дадут
					more, _ := ListFiles(ev.Name, exts)
					for _, p := range more {
						pending[p] = struct{}{}
					}
				}
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 && matches(ev.Name) {
				pending[ev.Name] = struct{}{}
			}
			if len(pending) == before {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		case <-fire:
			fire = nil
			batch := make([]string, 0, len(pending))
			for p := range pending {
				// переименованный или удалённый файл пропускаем
				if _, err := os.Stat(p); err == nil {
					batch = append(batch, p)
				}
			}
			clear(pending)
			if len(batch) == 0 {
				continue
			}
			slices.Sort(batch)
			if err := watchRun(ctx, batch, opts); err != nil {
				return err
			}
		}
	}
}

func watchRun(ctx context.Context, files []string, opts WatchOptions) error {
	report, err := Diagnose(ctx, files, opts.Options)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
	if opts.OnReport != nil {
		opts.OnReport(report)
	}
	return nil
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
