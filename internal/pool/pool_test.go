package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_ExecutesSubmittedJobs(t *testing.T) {
	p := New(4)
	defer p.Close()

	var count atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		p.Submit(func() {
			count.Add(1)
			wg.Done()
		})
	}
	wg.Wait()

	if got := count.Load(); got != 100 {
		t.Errorf("executed %d jobs, want 100", got)
	}
}

func TestPool_DefaultWorkerCount(t *testing.T) {
	p := New(0)
	defer p.Close()

	if p.Workers() <= 0 {
		t.Errorf("Workers = %d, want positive", p.Workers())
	}
}

func TestPool_CloseRunsQueuedJobs(t *testing.T) {
	p := New(1)

	release := make(chan struct{})
	var count atomic.Int64

	// The first job blocks the single worker so the rest stay queued.
	p.Submit(func() {
		<-release
		count.Add(1)
	})
	for i := 0; i < 5; i++ {
		p.Submit(func() { count.Add(1) })
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		close(release)
	}()
	p.Close()

	if got := count.Load(); got != 6 {
		t.Errorf("executed %d jobs, want all 6 despite shutdown", got)
	}
}

func TestPool_SubmitAfterCloseIsRejected(t *testing.T) {
	p := New(1)
	p.Close()

	if p.IsRunning() {
		t.Error("IsRunning = true after Close")
	}

	var ran atomic.Bool
	if p.Submit(func() { ran.Store(true) }) {
		t.Error("Submit after Close should report rejection")
	}

	time.Sleep(10 * time.Millisecond)
	if ran.Load() {
		t.Error("a job submitted after Close must not run")
	}
}

func TestPool_SubmitReportsAcceptance(t *testing.T) {
	p := New(1)
	defer p.Close()

	done := make(chan struct{})
	if !p.Submit(func() { close(done) }) {
		t.Error("Submit on a live pool should report acceptance")
	}
	<-done

	if p.Submit(nil) {
		t.Error("a nil job is never accepted")
	}
}

func TestPool_SubmitNeverBlocksWhenQueuesFull(t *testing.T) {
	p := New(1)
	defer p.Close()

	// Wedge the single worker so its queue can only fill up.
	release := make(chan struct{})
	p.Submit(func() { <-release })

	var done sync.WaitGroup
	submitted := make(chan struct{})
	go func() {
		for i := 0; i < 64; i++ {
			done.Add(1)
			if !p.Submit(func() { done.Done() }) {
				done.Done()
				t.Error("Submit rejected a job on a live pool")
			}
		}
		close(submitted)
	}()

	select {
	case <-submitted:
	case <-time.After(5 * time.Second):
		t.Fatal("Submit blocked on full queues")
	}

	close(release)
	finished := make(chan struct{})
	go func() {
		done.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("accepted jobs never ran")
	}
}

func TestPool_CloseIsIdempotent(t *testing.T) {
	p := New(2)
	p.Close()
	p.Close()
}

func TestPool_NilJobIgnored(t *testing.T) {
	p := New(1)
	defer p.Close()

	p.Submit(nil)

	done := make(chan struct{})
	p.Submit(func() { close(done) })
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pool stopped executing after a nil submission")
	}
}

func TestPool_WorkStealing(t *testing.T) {
	p := New(2)
	defer p.Close()

	// Occupy one worker with a long job; the other must still make
	// progress on the remaining work wherever it was queued.
	blocked := make(chan struct{})
	p.Submit(func() { <-blocked })

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		p.Submit(func() { wg.Done() })
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("jobs starved behind a single slow worker")
	}
	close(blocked)
}
