package cse

import (
	"bytes"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"colmto/internal/vehicle"
)

func TestDecisionLogger_WritesOneLine(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDecisionLogger(log.New(&buf, "", 0))

	logger.ObserveDecision("v-1", vehicle.Deny, 1500*time.Microsecond)

	line := buf.String()
	if !strings.Contains(line, "vehicle=v-1") || !strings.Contains(line, "class=deny") {
		t.Fatalf("unexpected log line: %q", line)
	}
}

func TestAsyncDecisionObserver_DeliversEventsOnClose(t *testing.T) {
	spy := &spyDecisionObserver{}
	async := NewAsyncDecisionObserver(spy, 8)

	async.ObserveDecision("a", vehicle.Allow, time.Millisecond)
	async.ObserveDecision("b", vehicle.Deny, 2*time.Millisecond)
	async.Close()

	if got := spy.Count(); got != 2 {
		t.Fatalf("expected 2 delivered events, got %d", got)
	}
}

func TestAsyncDecisionObserver_DropsWhenBufferIsFull(t *testing.T) {
	spy := &spyDecisionObserver{}
	async := NewAsyncDecisionObserver(spy, 1)

	for i := 0; i < 1000; i++ {
		async.ObserveDecision("v", vehicle.Allow, time.Microsecond)
	}
	async.Close()

	if async.Dropped() == 0 {
		t.Fatalf("expected dropped events > 0")
	}
}

func TestAsyncDecisionObserver_CloseDuringConcurrentObserveDoesNotPanic(t *testing.T) {
	spy := &spyDecisionObserver{}
	async := NewAsyncDecisionObserver(spy, 32)

	const workers = 8
	const perWorker = 200
	var wg sync.WaitGroup
	var panics atomic.Int32

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if recover() != nil {
					panics.Add(1)
				}
			}()
			for j := 0; j < perWorker; j++ {
				async.ObserveDecision("v", vehicle.Deny, time.Microsecond)
			}
		}()
	}

	time.Sleep(1 * time.Millisecond)
	async.Close()
	wg.Wait()

	if panics.Load() != 0 {
		t.Fatalf("expected no panics, got %d", panics.Load())
	}
}
