// Per-path FIFO serialization of file-touching operations.

package storedobject

import (
	"log/slog"
	"sync"
)

// LockRegistry maps absolute file paths to their serialization queues.
// Stores opened against the same path through the same registry share one
// queue; that sharing is what makes same-process concurrent access safe.
//
// Entries are created lazily on first use and live for the registry's
// lifetime. The zero value is not usable; call [NewLockRegistry].
type LockRegistry struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

// NewLockRegistry returns an empty registry. Most callers can rely on the
// package-wide default used by [Open] when Options.Locks is nil; a dedicated
// registry is useful to scope lock state to a test or a container.
func NewLockRegistry() *LockRegistry {
	return &LockRegistry{locks: make(map[string]*pathLock)}
}

// defaultLocks backs stores that do not inject a registry, preserving the
// "same path, same queue" guarantee across unrelated Open calls.
var defaultLocks = NewLockRegistry()

func (r *LockRegistry) get(path string) *pathLock {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := r.locks[path]
	if l == nil {
		l = &pathLock{path: path}
		r.locks[path] = l
	}
	return l
}

// pathLock serializes tasks for one path in FIFO submission order. Each run
// call chains behind the previous tail, waits for it to settle, executes,
// then releases its own slot whether or not the task failed.
type pathLock struct {
	mu   sync.Mutex
	tail chan struct{}
	path string
}

// run executes fn after every previously submitted task for this path has
// settled. fn's error is logged and returned to this caller only; it never
// poisons the queue for subsequent tasks.
func (l *pathLock) run(log *slog.Logger, fn func() error) error {
	l.mu.Lock()
	prev := l.tail
	slot := make(chan struct{})
	l.tail = slot
	l.mu.Unlock()

	if prev != nil {
		<-prev
	}
	defer close(slot)

	if err := fn(); err != nil {
		log.Warn("store operation failed", "path", l.path, "err", err)
		return err
	}
	return nil
}
