// File: actor/actor.go

// Package actor provides the mailbox runtime shared by every stateful agent
// in the module: a bounded multi-producer single-consumer queue owned by one
// goroutine that processes messages strictly one at a time.
package actor

import (
	"context"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
)

// DefaultCapacity is the mailbox depth used when Spawn is given a
// non-positive capacity.
const DefaultCapacity = 100

// Message is anything deliverable to a mailbox. Abort is invoked by the
// runtime when the message will never be answered (handler panic, mailbox
// closed before delivery) so that a waiting caller unblocks with
// ErrNoResponse instead of hanging. Messages without a reply channel
// implement it as a no-op.
type Message interface {
	Abort()
}

// Handler processes a single message against the actor's private state.
// It runs on the owning goroutine only, so it needs no synchronization.
type Handler[M Message] func(M)

// Mailbox is the send side plus the owning loop of one actor. Handles
// share a *Mailbox; it is safe for concurrent use by any number of
// senders.
type Mailbox[M Message] struct {
	name string
	ch   chan M
	done chan struct{}
	term chan struct{}
	log  *zap.Logger

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// Spawn creates a bounded mailbox, starts the goroutine that owns it, and
// returns the mailbox for handles to wrap. The loop runs until Close is
// called and every message queued before the close has been handled.
func Spawn[M Message](name string, capacity int, log *zap.Logger, handle Handler[M]) *Mailbox[M] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if log == nil {
		log = zap.NewNop()
	}
	m := &Mailbox[M]{
		name: name,
		ch:   make(chan M, capacity),
		done: make(chan struct{}),
		term: make(chan struct{}),
		log:  log.With(zap.String("actor", name)),
	}
	go m.run(handle)
	return m
}

// Name returns the identifier the mailbox was spawned under.
func (m *Mailbox[M]) Name() string { return m.name }

// Send enqueues msg, blocking while the mailbox is full. It returns
// ErrDisconnected once the mailbox has been closed and the context error if
// ctx ends first. On any failure the message is aborted so an embedded
// reply reports ErrNoResponse to anyone already waiting on it.
func (m *Mailbox[M]) Send(ctx context.Context, msg M) error {
	// The read lock is held for the whole enqueue. Close takes the write
	// lock, so once closed is observed true no sender is mid-enqueue and
	// the drain in run sees every accepted message.
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		msg.Abort()
		return ErrDisconnected
	}
	defer m.mu.RUnlock()

	select {
	case m.ch <- msg:
		return nil
	case <-ctx.Done():
		msg.Abort()
		return ctx.Err()
	}
}

// Close stops intake. Messages already queued are still handled; the loop
// exits once the queue is empty. Safe to call more than once and from any
// goroutine.
func (m *Mailbox[M]) Close() {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		m.closed = true
		m.mu.Unlock()
		close(m.done)
	})
}

// Done is closed when the owning loop has exited, i.e. after Close and a
// full drain. Callers that need a quiesced actor wait on it.
func (m *Mailbox[M]) Done() <-chan struct{} { return m.term }

func (m *Mailbox[M]) run(handle Handler[M]) {
	defer close(m.term)
	for {
		select {
		case msg := <-m.ch:
			m.dispatch(handle, msg)
		case <-m.done:
			// Close holds the write lock before closing done, so nothing
			// can be enqueued past this point. Drain what was accepted.
			for {
				select {
				case msg := <-m.ch:
					m.dispatch(handle, msg)
				default:
					return
				}
			}
		}
	}
}

// dispatch runs the handler for one message, recovering a panic so a bad
// message cannot take the whole actor down. The panicked message is
// aborted; the loop keeps serving subsequent messages.
func (m *Mailbox[M]) dispatch(handle Handler[M], msg M) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("handler panicked",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())),
			)
			msg.Abort()
		}
	}()
	handle(msg)
}
