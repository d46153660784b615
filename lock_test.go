package storedobject

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPathLockFIFO(t *testing.T) {
	log := discardLogger()
	l := NewLockRegistry().get("/tmp/fifo")

	const n = 6
	var mu sync.Mutex
	var order []int
	release := make(chan struct{})
	var wg sync.WaitGroup

	// Task 0 holds the queue until every later task is submitted. Later
	// tasks finish fast-to-slow in reverse submission order; the queue must
	// still run them in submission order.
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = l.run(log, func() error {
			<-release
			mu.Lock()
			order = append(order, 0)
			mu.Unlock()
			return nil
		})
	}()
	time.Sleep(20 * time.Millisecond)
	for i := 1; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.run(log, func() error {
				time.Sleep(time.Duration(n-i) * time.Millisecond)
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return nil
			})
		}()
		// Give each submission time to enqueue before the next.
		time.Sleep(20 * time.Millisecond)
	}
	close(release)
	wg.Wait()

	for i, got := range order {
		if got != i {
			t.Fatalf("execution order = %v, want ascending", order)
		}
	}
}

func TestPathLockFailureIsolation(t *testing.T) {
	log := discardLogger()
	l := NewLockRegistry().get("/tmp/fail")

	boom := errors.New("boom")
	if err := l.run(log, func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("failed task's error = %v, want boom", err)
	}

	// The queue keeps serving after a failure.
	ran := false
	if err := l.run(log, func() error { ran = true; return nil }); err != nil {
		t.Fatalf("subsequent task failed: %v", err)
	}
	if !ran {
		t.Fatal("subsequent task did not run")
	}
}

func TestLockRegistrySharing(t *testing.T) {
	r := NewLockRegistry()
	if r.get("/a") != r.get("/a") {
		t.Error("same path must share one lock")
	}
	if r.get("/a") == r.get("/b") {
		t.Error("different paths must not share a lock")
	}
	if NewLockRegistry().get("/a") == r.get("/a") {
		t.Error("registries must not share state")
	}
}
