package events

import "context"

// Sink accepts recommendation events. Appending the same event ID twice is a no-op.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Repo stores events and lists a learner's history, newest first.
type Repo interface {
	Sink
	ListByLearner(ctx context.Context, learnerID string, limit int) ([]Event, error)
}
