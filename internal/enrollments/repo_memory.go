package enrollments

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]map[string]Enrollment
}

func NewMemoryRepo(seed ...Enrollment) *MemoryRepo {
	r := &MemoryRepo{byID: make(map[string]map[string]Enrollment)}
	for _, e := range seed {
		r.put(e)
	}
	return r
}

func (r *MemoryRepo) ListByLearner(ctx context.Context, learnerID string) ([]Enrollment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Enrollment, 0, len(r.byID[learnerID]))
	for _, e := range r.byID[learnerID] {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EnrolledAt.Equal(out[j].EnrolledAt) {
			return out[i].EnrolledAt.Before(out[j].EnrolledAt)
		}
		return out[i].CourseID < out[j].CourseID
	})
	return out, nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, enrollment Enrollment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byID[enrollment.LearnerID][enrollment.CourseID]; ok {
		enrollment.EnrolledAt = existing.EnrolledAt
	}
	r.put(enrollment)
	return nil
}

func (r *MemoryRepo) put(e Enrollment) {
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now().UTC()
	}
	courses, ok := r.byID[e.LearnerID]
	if !ok {
		courses = make(map[string]Enrollment)
		r.byID[e.LearnerID] = courses
	}
	courses[e.CourseID] = e
}
