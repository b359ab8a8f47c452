/*
errors.go - Logistics error definitions

PURPOSE:
  Sentinel errors for the dispatcher's enqueue surface. Scheduling
  failures inside a tick (no candidate, nothing reservable, requester
  cooldown) are not errors; the request simply stays queued.
*/
package logistics

import "errors"

var (
	// ErrNoRequester means a request names neither consumer nor producer.
	ErrNoRequester = errors.New("request has no requester facility")

	// ErrBadQuantity means a request was enqueued with quantity <= 0.
	ErrBadQuantity = errors.New("request quantity must be positive")

	// ErrUnknownRequest means a cancel targeted an ID the dispatcher
	// does not track.
	ErrUnknownRequest = errors.New("unknown request id")
)
