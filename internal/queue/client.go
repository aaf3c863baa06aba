package queue

import "context"

// Client hands a recommendation event message to a queue backend. SQSClient is
// the production implementation; the event worker consumes on the other side.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// ClientFunc adapts a plain function to Client.
type ClientFunc func(ctx context.Context, msg Message) error

// Send calls f.
func (f ClientFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}
