// File: actor/errors.go
package actor

import "errors"

var (
	// ErrDisconnected is returned by Send when the target mailbox has been
	// closed: the actor is gone and will never see the message.
	ErrDisconnected = errors.New("actor mailbox is closed")

	// ErrNoResponse is returned by Reply.Recv when the actor accepted the
	// request but dropped it without answering, e.g. its handler panicked.
	ErrNoResponse = errors.New("actor dropped the request without replying")
)
