package navguard

import (
	"context"
	"sync"
	"sync/atomic"
)

// auditDispatcher decouples decision latency from sink latency: events go
// into a buffered channel and a single goroutine drains them into the sink.
// When the buffer is full the event is counted as dropped rather than
// blocking the evaluation path.
type auditDispatcher struct {
	sink      AuditSink
	events    chan AuditEvent
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closeOnce sync.Once
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	if !cfg.Enabled || sink == nil {
		return nil
	}

	d := &auditDispatcher{
		sink:   sink,
		events: make(chan AuditEvent, cfg.BufferSize),
		done:   make(chan struct{}),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

func (d *auditDispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case event := <-d.events:
			d.sink.Emit(context.Background(), event)
		case <-d.done:
			// Drain whatever is buffered before exiting.
			for {
				select {
				case event := <-d.events:
					d.sink.Emit(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

// Emit enqueues an event. Never blocks; full buffer counts a drop.
func (d *auditDispatcher) Emit(event AuditEvent) {
	if d == nil {
		return
	}
	select {
	case d.events <- event:
	default:
		d.dropped.Add(1)
	}
}

// Dropped returns the number of events lost to a full buffer.
func (d *auditDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}

// Close stops the dispatcher after draining buffered events. Idempotent.
func (d *auditDispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		close(d.done)
		d.wg.Wait()
	})
}
