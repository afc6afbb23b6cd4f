package postgen

import (
	"sync"
	"testing"
)

func TestGateFiresExactlyOnceUnderDualTrigger(t *testing.T) {
	var mu sync.Mutex
	fired := 0
	gate := NewGate(testLogger(t), func(res *GenerationResult) {
		mu.Lock()
		fired++
		mu.Unlock()
	}, nil)

	res, err := DecodeResult(completeResultMap(t))
	if err != nil {
		t.Fatalf("DecodeResult: %v", err)
	}
	completed := Snapshot{Phase: PhaseCompleted, Result: res}

	// the subscriber goroutine and the handler's post-stream check race
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); gate.Observe(completed) }()
		go func() { defer wg.Done(); gate.Observe(completed) }()
	}
	wg.Wait()

	if fired != 1 {
		t.Fatalf("onReady fired %d times, want exactly 1", fired)
	}
	if !gate.HasFired() {
		t.Fatalf("HasFired should report true")
	}
}

func TestGateFailureNeverFires(t *testing.T) {
	var gotErr error
	gate := NewGate(testLogger(t), func(res *GenerationResult) {
		t.Fatalf("onReady must not fire on failure")
	}, func(err error) { gotErr = err })

	failed := Snapshot{Phase: PhaseFailed, Err: errTransport}
	gate.Observe(failed)
	if gotErr == nil {
		t.Fatalf("onError should have been invoked")
	}

	// a late completed snapshot after failure stays silent
	res, err := DecodeResult(completeResultMap(t))
	if err != nil {
		t.Fatalf("DecodeResult: %v", err)
	}
	gate.Observe(Snapshot{Phase: PhaseCompleted, Result: res})
	if gate.HasFired() {
		t.Fatalf("gate fired after a terminal failure")
	}
}

func TestGateStreamingObserveDoesNotFire(t *testing.T) {
	gate := NewGate(testLogger(t), func(res *GenerationResult) {
		t.Fatalf("onReady must not fire while streaming")
	}, nil)
	gate.Observe(Snapshot{Phase: PhaseStreaming, Partial: slidePartial("still going")})
}
