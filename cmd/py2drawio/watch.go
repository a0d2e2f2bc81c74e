package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/odvcencio/py2drawio/pkg/exclude"
	"github.com/odvcencio/py2drawio/pkg/index"
	"github.com/odvcencio/py2drawio/pkg/structdiff"
)

// watchAndGenerate writes the diagram once and then again after every burst
// of source changes. A failed pass is reported and the watch continues.
func watchAndGenerate(ctx context.Context, out, errOut io.Writer, builder *index.Builder, cache *index.Cache, opts runOptions) error {
	previous, err := generate(out, errOut, builder, opts)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
	}

	absOutput, err := filepath.Abs(opts.Output)
	if err != nil {
		return err
	}
	root, err := watchRoot(opts.Root)
	if err != nil {
		return err
	}
	skipDir := func(path string) bool {
		return shouldSkipWatchDir(root, path, opts.Exclude)
	}
	relevant := func(path string, op fsnotify.Op) bool {
		return isRelevantChange(builder, absOutput, path, op) && !isExcludedPath(root, path, opts.Exclude)
	}

	return watchWithFSNotify(ctx, root, opts.Debounce, skipDir, relevant, func(changed []string) {
		for _, path := range changed {
			cache.Forget(path)
		}
		fmt.Fprintf(out, "changes: files=%d\n", len(changed))
		current, err := generate(out, errOut, builder, opts)
		if err != nil {
			fmt.Fprintln(errOut, "error:", err)
			return
		}
		if previous != nil && !opts.JSON {
			printModelChanges(out, structdiff.Compare(previous.Classes, current.Classes))
		}
		previous = current
	})
}

// printModelChanges lists the classes and member rows that appeared or
// disappeared since the previous successful pass.
func printModelChanges(out io.Writer, report structdiff.Report) {
	if report.Empty() {
		fmt.Fprintln(out, "model: unchanged")
		return
	}
	fmt.Fprintf(
		out,
		"model: changed_classes=%d classes +%d -%d members +%d -%d\n",
		report.Stats.ChangedClasses,
		report.Stats.AddedClasses,
		report.Stats.RemovedClasses,
		report.Stats.AddedMembers,
		report.Stats.RemovedMembers,
	)
	for _, name := range report.AddedClasses {
		fmt.Fprintf(out, "  + class %s\n", name)
	}
	for _, name := range report.RemovedClasses {
		fmt.Fprintf(out, "  - class %s\n", name)
	}
	for _, key := range report.AddedMembers {
		fmt.Fprintf(out, "  + %s %s.%s\n", key.Kind, key.Owner, key.Name)
	}
	for _, key := range report.RemovedMembers {
		fmt.Fprintf(out, "  - %s %s.%s\n", key.Kind, key.Owner, key.Name)
	}
}

func watchWithFSNotify(ctx context.Context, target string, debounce time.Duration, skipDir func(string) bool, relevant func(string, fsnotify.Op) bool, onChange func(changedPaths []string)) error {
	root, err := watchRoot(target)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addWatchRecursive(watcher, root, skipDir); err != nil {
		return err
	}

	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	pending := false
	pendingPaths := map[string]bool{}

	resetDebounce := func(path string) {
		pendingPaths[path] = true
		if pending {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}
		timer.Reset(debounce)
		pending = true
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			eventPath := filepath.Clean(event.Name)
			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(eventPath); statErr == nil && info.IsDir() {
					_ = addWatchRecursive(watcher, eventPath, skipDir)
				}
			}
			if !relevant(eventPath, event.Op) {
				continue
			}
			resetDebounce(eventPath)
		case <-timer.C:
			if pending {
				pending = false
				changed := make([]string, 0, len(pendingPaths))
				for path := range pendingPaths {
					changed = append(changed, path)
				}
				sort.Strings(changed)
				pendingPaths = map[string]bool{}
				onChange(changed)
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return watchErr
		}
	}
}

func watchRoot(target string) (string, error) {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	absTarget = filepath.Clean(absTarget)

	info, err := os.Stat(absTarget)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return absTarget, nil
	}
	return filepath.Dir(absTarget), nil
}

func addWatchRecursive(watcher *fsnotify.Watcher, root string, skipDir func(string) bool) error {
	root = filepath.Clean(root)
	return filepath.WalkDir(root, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if skipDir != nil && skipDir(path) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// shouldSkipWatchDir leaves excluded directories unwatched. The root itself
// is always watched.
func shouldSkipWatchDir(root, path string, excluded *exclude.Set) bool {
	if path == root || excluded.Len() == 0 {
		return false
	}
	relPath, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return excluded.Excluded(filepath.ToSlash(relPath), true)
}

func isExcludedPath(root, path string, excluded *exclude.Set) bool {
	if excluded.Len() == 0 {
		return false
	}
	relPath, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return false
	}
	return excluded.ExcludedPath(filepath.ToSlash(relPath))
}

// isRelevantChange keeps source file events plus removals and renames,
// which may take a whole directory of sources with them. Events on the
// diagram itself and on editor scratch files are dropped.
func isRelevantChange(builder *index.Builder, output, path string, op fsnotify.Op) bool {
	if path == output {
		return false
	}

	base := filepath.Base(path)
	if base == ".DS_Store" || strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, ".swx") || strings.HasPrefix(base, ".#") {
		return false
	}

	if _, ok := builder.ParserForPath(path); ok {
		return op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
	}
	return op&(fsnotify.Remove|fsnotify.Rename) != 0
}
