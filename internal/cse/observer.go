package cse

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"colmto/internal/vehicle"
)

// DecisionLogger logs one line per access decision.
type DecisionLogger struct {
	logger *log.Logger
}

func NewDecisionLogger(logger *log.Logger) *DecisionLogger {
	return &DecisionLogger{logger: logger}
}

func (l *DecisionLogger) ObserveDecision(vehicleID string, class vehicle.AccessClass, duration time.Duration) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Printf("otl_decision vehicle=%s class=%s duration_ms=%.3f", vehicleID, class, float64(duration.Microseconds())/1000.0)
}

// AsyncDecisionObserver decouples observation from the evaluation hot path.
// Events that do not fit the buffer are dropped and counted, never blocked on.
type AsyncDecisionObserver struct {
	next    DecisionObserver
	events  chan decisionEvent
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

type decisionEvent struct {
	vehicleID string
	class     vehicle.AccessClass
	duration  time.Duration
}

func NewAsyncDecisionObserver(next DecisionObserver, buffer int) *AsyncDecisionObserver {
	if buffer <= 0 {
		buffer = 1
	}

	o := &AsyncDecisionObserver{
		next:   next,
		events: make(chan decisionEvent, buffer),
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		for ev := range o.events {
			if o.next == nil {
				continue
			}
			o.next.ObserveDecision(ev.vehicleID, ev.class, ev.duration)
		}
	}()

	return o
}

func (o *AsyncDecisionObserver) ObserveDecision(vehicleID string, class vehicle.AccessClass, duration time.Duration) {
	if o == nil {
		return
	}
	o.mu.RLock()
	if o.closed {
		o.mu.RUnlock()
		o.dropped.Add(1)
		return
	}
	select {
	case o.events <- decisionEvent{vehicleID: vehicleID, class: class, duration: duration}:
	default:
		o.dropped.Add(1)
	}
	o.mu.RUnlock()
}

func (o *AsyncDecisionObserver) Dropped() uint64 {
	if o == nil {
		return 0
	}
	return o.dropped.Load()
}

func (o *AsyncDecisionObserver) Close() {
	if o == nil {
		return
	}
	o.once.Do(func() {
		o.mu.Lock()
		o.closed = true
		close(o.events)
		o.mu.Unlock()
		o.wg.Wait()
	})
}
