package courses

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "course not found" }

// Repo defines read/write access to the course catalog.
type Repo interface {
	ListPublished(ctx context.Context) ([]Course, error)
	GetByIDs(ctx context.Context, ids []string) ([]Course, error)
	Upsert(ctx context.Context, course Course) error
}
