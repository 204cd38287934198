// File: actor/reply.go
package actor

import (
	"context"
	"sync"
)

// Reply is a single-use response channel embedded in request messages.
// Exactly one of Deliver or Abort takes effect; whichever runs first wins
// and later calls are no-ops. The channel is buffered, so delivering to a
// caller that abandoned its wait never blocks the actor.
type Reply[T any] struct {
	ch   chan T
	once *sync.Once
}

// NewReply creates an unanswered reply.
func NewReply[T any]() Reply[T] {
	return Reply[T]{ch: make(chan T, 1), once: new(sync.Once)}
}

// Deliver hands the value to the waiting caller.
func (r Reply[T]) Deliver(v T) {
	r.once.Do(func() {
		r.ch <- v
		close(r.ch)
	})
}

// Abort closes the reply without a value; Recv reports ErrNoResponse.
func (r Reply[T]) Abort() {
	r.once.Do(func() {
		close(r.ch)
	})
}

// Recv waits for the answer. It returns ErrNoResponse if the actor gave up
// on the request and the context error if ctx ends first.
func (r Reply[T]) Recv(ctx context.Context) (T, error) {
	var zero T
	select {
	case v, ok := <-r.ch:
		if !ok {
			return zero, ErrNoResponse
		}
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
