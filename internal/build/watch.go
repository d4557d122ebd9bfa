package build

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces bursts of filesystem events (editors often write
// several times per save) into one rebuild trigger.
const debounceWindow = 300 * time.Millisecond

// Watch observes the source tree and invokes onChange after each settled
// burst of modifications. It blocks until the context is cancelled.
//
// Parameters:
//   - ctx: Stops the watcher
//   - srcDir: Directory tree to observe
//   - onChange: Called once per settled change burst
//
// Returns:
//   - error: Watcher setup failure, or ctx.Err() on cancellation
func Watch(ctx context.Context, srcDir string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// fsnotify does not recurse; register every subdirectory.
	err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	var debounce *time.Timer
	fired := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug("source change detected", "path", event.Name, "op", event.Op.String())
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceWindow, func() {
				select {
				case fired <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Debug("watch error", "err", err)

		case <-fired:
			onChange()
		}
	}
}
