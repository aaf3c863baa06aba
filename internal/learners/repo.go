package learners

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "learner not found" }

type Repo interface {
	GetByID(ctx context.Context, learnerID string) (Profile, error)
	Upsert(ctx context.Context, profile Profile) error
}
