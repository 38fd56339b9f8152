package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"lwcc/common"
)

const debounceDelay = 100 * time.Millisecond

// Watch compiles sources under src and then recompiles changed ones until
// context is cancelled. Compilation failures are logged and do not stop
// watching.
func (b *Builder) Watch(ctx context.Context, src, dst string) error {
	root, sources, err := Discover(src)
	if err != nil {
		return err
	}
	// single file was requested
	var only string
	if fi, err := os.Stat(src); err == nil && fi.Mode().IsRegular() {
		only = sources[0].Path
	}

	// recompiling always replaces what previous cycle produced
	b.Overwrite = true
	initial := b.Compile(ctx, sources, dst)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to create file watcher: %w", err)
	}
	defer watcher.Close()

	if len(only) > 0 {
		err = watcher.Add(root)
	} else {
		err = addDirs(watcher, root)
	}
	if err != nil {
		return fmt.Errorf("unable to watch directory (%s): %w", root, err)
	}
	b.log.Info("Watching for changes", zap.String("source", root))
	b.signal(initial)

	debounce := time.NewTimer(debounceDelay)
	debounce.Stop()

	pending := make(map[string]fsnotify.Op)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() && !skipDir(fi.Name()) && len(only) == 0 {
					if err := addDirs(watcher, event.Name); err != nil {
						b.log.Warn("Unable to watch directory", zap.String("dir", event.Name), zap.Error(err))
					}
					continue
				}
			}
			if _, ok := common.FileKindFromName(event.Name); !ok {
				continue
			}
			if len(only) > 0 && event.Name != only {
				continue
			}
			pending[event.Name] |= event.Op
			debounce.Reset(debounceDelay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			b.log.Warn("Watcher error", zap.Error(err))

		case <-debounce.C:
			changed := pending
			pending = make(map[string]fsnotify.Op)
			b.generation++
			b.signal(b.recompile(ctx, root, dst, changed))
		}
	}
}

func (b *Builder) signal(err error) {
	if b.cycled != nil {
		b.cycled <- err
	}
}

// recompile compiles changed sources. Templates sharing name with changed
// stylesheet are recompiled too since their stylesheet import depends on
// stylesheet presence. Generated modules of removed sources are removed.
func (b *Builder) recompile(ctx context.Context, root, dst string, changed map[string]fsnotify.Op) error {
	var (
		paths []string
		errs  error
	)
	add := func(path string) {
		if !slices.Contains(paths, path) {
			paths = append(paths, path)
		}
	}
	for path, op := range changed {
		if kind, _ := common.FileKindFromName(path); kind == common.FileKindStylesheet {
			tmpl := strings.TrimSuffix(path, filepath.Ext(path)) + common.FileKindTemplate.Ext()
			if _, err := os.Stat(tmpl); err == nil {
				add(tmpl)
			}
		}
		if _, err := os.Stat(path); err != nil {
			if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
				errs = multierr.Append(errs, b.removeOutput(root, dst, path))
			}
			continue
		}
		add(path)
	}
	slices.Sort(paths)

	sources := make([]Source, 0, len(paths))
	for _, path := range paths {
		s, err := NewSource(root, path)
		if err != nil {
			continue
		}
		sources = append(sources, s)
	}
	b.log.Info("Sources changed", zap.Int("count", len(sources)))
	return multierr.Append(errs, b.Compile(ctx, sources, dst))
}

func (b *Builder) removeOutput(root, dst, path string) error {
	s, err := NewSource(root, path)
	if err != nil {
		return nil
	}
	out := s.Output(dst)
	if err := os.Remove(out); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unable to remove stale module: %w", err)
	}
	b.log.Debug("Source removed", zap.String("source", s.Rel), zap.String("module", out))
	return nil
}

func addDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
