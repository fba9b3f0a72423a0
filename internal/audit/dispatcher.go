package audit

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/appointment-engine/internal/domain/appointment"
)

var ErrDispatcherClosed = errors.New("audit: dispatcher closed")

// Sink receives every dispatched event once.
type Sink interface {
	Handle(ctx context.Context, ev domain.DomainEvent) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, ev domain.DomainEvent) error

func (f SinkFunc) Handle(ctx context.Context, ev domain.DomainEvent) error {
	return f(ctx, ev)
}

// Dispatcher hands events to its sinks from a single background worker,
// in the order they were dispatched. A full queue makes Dispatch wait
// rather than drop the event.
type Dispatcher struct {
	sinks []Sink
	log   zerolog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan domain.DomainEvent
	done   chan struct{}
}

func NewDispatcher(log zerolog.Logger, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks: sinks,
		log:   log,
		queue: make(chan domain.DomainEvent, 100),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		for _, s := range d.sinks {
			if err := s.Handle(context.Background(), ev); err != nil {
				d.log.Error().
					Err(err).
					Str("event_id", ev.ID.String()).
					Str("event_type", string(ev.Type)).
					Msg("audit sink failed")
			}
		}
	}
}

// Dispatch enqueues events. It only fails if ctx ends first or the
// dispatcher was closed.
func (d *Dispatcher) Dispatch(ctx context.Context, events ...domain.DomainEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDispatcherClosed
	}

	for _, ev := range events {
		select {
		case d.queue <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close stops accepting events and waits until the queue is drained.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}
