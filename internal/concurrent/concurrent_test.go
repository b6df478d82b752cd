package concurrent

import (
	"sync"
	"testing"

	"alore.dev/runtime/internal/heap"
)

func TestMutexCounterScenario(t *testing.T) {
	// End-to-end scenario 6: two threads each incrementing a shared
	// counter under a Mutex 10,000 times yield final value 20,000.
	h := heap.New(nil)
	rt, _ := NewRuntime(h, 0)
	mu := rt.NewMutex()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		_, join := rt.Spawn(0, func(th *Thread) {
			defer wg.Done()
			for j := 0; j < 10000; j++ {
				mu.Lock()
				counter++
				mu.Unlock()
			}
		})
		defer join()
	}
	wg.Wait()
	if counter != 20000 {
		t.Fatalf("counter = %d, want 20000", counter)
	}
}

func TestFreezeBlocksOtherThreads(t *testing.T) {
	h := heap.New(nil)
	rt, _ := NewRuntime(h, 0)

	progressed := false
	started := make(chan struct{})
	_, join := rt.Spawn(0, func(th *Thread) {
		close(started)
		// Reach the safepoint only once the freeze is in effect.
		for !rt.Freezer.IsFreezing() {
		}
		rt.Freezer.Safepoint()
		progressed = true
	})
	<-started

	rt.Freezer.RequestFreeze()
	if progressed {
		t.Fatal("thread progressed past safepoint while frozen")
	}
	rt.Freezer.ReleaseFreeze()
	join()
	if !progressed {
		t.Fatal("thread should have progressed after freeze released")
	}
}

func TestNumThreadsAccountingAcrossSpawnJoin(t *testing.T) {
	h := heap.New(nil)
	rt, _ := NewRuntime(h, 0)
	if got := rt.Freezer.NumThreads(); got != 1 {
		t.Fatalf("NumThreads at start = %d, want 1 (main)", got)
	}
	_, join := rt.Spawn(0, func(th *Thread) {})
	join()
	if got := rt.Freezer.NumThreads(); got != 1 {
		t.Fatalf("NumThreads after join = %d, want 1", got)
	}
}

func TestRegexCacheEviction(t *testing.T) {
	c := NewRegexCache(2)
	c.Compile("a+")
	c.Compile("b+")
	c.Compile("c+") // evicts "a+"
	if c.Len() != 2 {
		t.Fatalf("cache len = %d, want 2", c.Len())
	}
}

func TestThreadPoolReuse(t *testing.T) {
	h := heap.New(nil)
	rt, _ := NewRuntime(h, 0)
	var firstID int
	_, join := rt.Spawn(0, func(th *Thread) { firstID = th.ID })
	join()
	_, join2 := rt.Spawn(0, func(th *Thread) {
		if th.ID != firstID {
			t.Errorf("expected pooled thread to be reused, got new id %d vs %d", th.ID, firstID)
		}
	})
	join2()
}
