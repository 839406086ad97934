package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLocalLockerExcludes(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Lock(ctx, "k")
			if err != nil {
				t.Errorf("Lock: %v", err)
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Fatalf("max holders = %d, want 1", maxSeen)
	}
	if n := l.size(); n != 0 {
		t.Fatalf("locker still tracks %d keys after all releases", n)
	}
}

func TestLocalLockerHonoursContext(t *testing.T) {
	l := NewLocalLocker()
	release, err := l.Lock(context.Background(), "k")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Lock(ctx, "k"); !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("second Lock err = %v, want ErrNotAcquired", err)
	}

	// Different keys never contend.
	other, err := l.Lock(context.Background(), "other")
	if err != nil {
		t.Fatalf("Lock other: %v", err)
	}
	other()
}

func TestLockAllDedupesAndReleases(t *testing.T) {
	l := NewLocalLocker()
	release, err := LockAll(context.Background(), l, "b", "a", "b")
	if err != nil {
		t.Fatalf("LockAll: %v", err)
	}
	if n := l.size(); n != 2 {
		t.Fatalf("tracked keys = %d, want 2", n)
	}
	release()
	if n := l.size(); n != 0 {
		t.Fatalf("tracked keys after release = %d, want 0", n)
	}
}
