// Watches the backing file and reloads on external modification.

package storedobject

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// watchReloadInterval paces watcher-triggered reloads. One save can emit a
// burst of filesystem events; reloads are spaced out rather than dropped so
// the last event in a burst is always applied.
const watchReloadInterval = 100 * time.Millisecond

// Watch reloads the store whenever the backing file is modified on disk,
// until ctx is done. The parent directory is watched rather than the file
// itself so that atomic save-via-rename editors are picked up.
//
// Watch blocks, so it runs on its own goroutine — which breaks the single
// goroutine access model the rest of the API assumes. While a watcher is
// running, read through [Store.Snapshot] (which copies under the store's
// lock) instead of indexing into a previously obtained [Store.Data] map or
// its nested values: the watcher merges into those same maps, and Go's
// runtime aborts on a concurrent map read and map write. Direct Data access
// remains fine once Watch has returned, or when the caller synchronizes with
// the watcher itself.
//
// Reload failures (for example a half-written file that is not yet valid
// JSON) are logged and watching continues. Note that the store's own Write
// and Reset also touch the file and therefore trigger a redundant reload.
func (s *Store) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return err
	}

	lim := rate.NewLimiter(rate.Every(watchReloadInterval), 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Name != s.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := lim.Wait(ctx); err != nil {
				return err
			}
			if err := s.Reload(); err != nil {
				s.log.Warn("reload after file change failed", "path", s.path, "err", err)
				continue
			}
			s.log.Debug("reloaded after file change", "path", s.path)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("error watching store file", "path", s.path, "err", err)
		}
	}
}
