package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"clearance/pkg/platform/sentinel"
)

// Sink persists or forwards events.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Publisher stamps events and hands them to a Sink, either inline or through
// a buffered worker.
type Publisher struct {
	sink   Sink
	logger *slog.Logger
	now    func() time.Time

	buffer int
	inbox  chan Event
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// Option configures a Publisher.
type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithBuffer makes Emit non-blocking: events queue in a channel of size n
// and a worker appends them. Close drains the queue.
func WithBuffer(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.buffer = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		if now != nil {
			p.now = now
		}
	}
}

func NewPublisher(sink Sink, opts ...Option) (*Publisher, error) {
	if sink == nil {
		return nil, fmt.Errorf("sink is required")
	}
	p := &Publisher{
		sink:   sink,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer > 0 {
		p.inbox = make(chan Event, p.buffer)
		p.done = make(chan struct{})
		w := newWorker(sink, p.inbox, p.logger)
		go func() {
			defer close(p.done)
			w.run()
		}()
	}
	return p, nil
}

// Emit fills ID and Timestamp when unset and delivers the event. In buffered
// mode a full queue blocks until space frees up or ctx ends.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now().UTC()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return fmt.Errorf("emit %s: %w", event.Kind, sentinel.ErrClosed)
	}
	if p.inbox == nil {
		if err := p.sink.Append(ctx, event); err != nil {
			return fmt.Errorf("append %s: %w", event.Kind, err)
		}
		return nil
	}
	select {
	case p.inbox <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting events and waits for queued ones to be appended.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.inbox != nil {
		close(p.inbox)
	}
	p.mu.Unlock()

	if p.done != nil {
		<-p.done
	}
}
