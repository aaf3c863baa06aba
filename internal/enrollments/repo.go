package enrollments

import "context"

type Repo interface {
	ListByLearner(ctx context.Context, learnerID string) ([]Enrollment, error)
	Upsert(ctx context.Context, enrollment Enrollment) error
}
