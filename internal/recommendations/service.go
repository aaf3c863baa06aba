package recommendations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"learnpath-backend/internal/courses"
	"learnpath-backend/internal/enrollments"
	"learnpath-backend/internal/events"
	"learnpath-backend/internal/learners"
	"learnpath-backend/internal/shared/metrics"
	"learnpath-backend/internal/shared/telemetry"
)

const defaultEventTimeout = 2 * time.Second

// Service loads a learner snapshot, runs the Engine and records an event for
// every non-empty result.
type Service struct {
	Learners     learners.Repo
	Enrollments  enrollments.Repo
	Courses      courses.Repo
	Events       events.Sink
	Engine       Engine
	EventTimeout time.Duration
}

// Browse computes ongoing recommendations for learnerID.
func (s *Service) Browse(ctx context.Context, learnerID string) (Result, error) {
	start := time.Now()
	snap, err := s.load(ctx, learnerID, true)
	if err != nil {
		return Result{}, err
	}
	res := s.Engine.Browse(snap)
	s.finish(ctx, snap.Profile, res, time.Since(start))
	return res, nil
}

// Onboarding computes first recommendations right after onboarding.
func (s *Service) Onboarding(ctx context.Context, learnerID string) (Result, error) {
	start := time.Now()
	snap, err := s.load(ctx, learnerID, false)
	if err != nil {
		return Result{}, err
	}
	res := s.Engine.Onboarding(snap)
	s.finish(ctx, snap.Profile, res, time.Since(start))
	return res, nil
}

func (s *Service) load(ctx context.Context, learnerID string, withEnrolled bool) (Snapshot, error) {
	if s == nil || s.Learners == nil || s.Enrollments == nil || s.Courses == nil {
		return Snapshot{}, errors.New("recommendations service not configured")
	}

	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.Learners.GetByID(gctx, learnerID)
		if err != nil {
			if errors.Is(err, learners.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrNotFound, learnerID)
			}
			return fmt.Errorf("load learner: %w", err)
		}
		snap.Profile = p
		return nil
	})
	g.Go(func() error {
		list, err := s.Enrollments.ListByLearner(gctx, learnerID)
		if err != nil {
			return fmt.Errorf("load enrollments: %w", err)
		}
		snap.Enrollments = list
		if !withEnrolled || len(list) == 0 {
			return nil
		}
		enrolled, err := s.Courses.GetByIDs(gctx, enrollments.CourseIDs(list))
		if err != nil {
			return fmt.Errorf("load enrolled courses: %w", err)
		}
		snap.Enrolled = enrolled
		return nil
	})
	g.Go(func() error {
		catalog, err := s.Courses.ListPublished(gctx)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		snap.Catalog = catalog
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *Service) finish(ctx context.Context, p learners.Profile, res Result, elapsed time.Duration) {
	metrics.ObserveRecommendation(string(res.Mode), string(res.Status), len(res.Items), elapsed)

	fields := map[string]any{
		"learner_id":  p.ID,
		"mode":        string(res.Mode),
		"status":      string(res.Status),
		"items":       len(res.Items),
		"level":       res.EffectiveLevel,
		"duration_ms": float64(elapsed.Microseconds()) / 1000.0,
	}
	switch res.Status {
	case StatusFallback:
		telemetry.Info("recommendations.fallback", fields)
	case StatusComingSoon:
		telemetry.Info("recommendations.coming_soon", fields)
	case StatusIncompleteProfile:
		fields["missing_fields"] = res.MissingFields
		telemetry.Info("recommendations.incomplete_profile", fields)
	default:
		telemetry.Info("recommendations.computed", fields)
	}

	if len(res.Items) > 0 {
		s.emit(ctx, events.New(p.ID, p.DisplayName, string(res.Mode), string(res.Source), len(res.Items)))
	}
}

// emit writes the event with its own deadline. Failures are logged and counted only.
func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.Events == nil {
		return
	}
	timeout := s.EventTimeout
	if timeout <= 0 {
		timeout = defaultEventTimeout
	}
	ectx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	err := func() (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("event sink panic: %v", rec)
			}
		}()
		return s.Events.Append(ectx, event)
	}()
	if err != nil {
		metrics.IncEventFailures()
		telemetry.Warn("recommendations.event_failed", map[string]any{
			"learner_id": event.LearnerID,
			"event_id":   event.ID,
			"mode":       event.Mode,
			"error":      err,
		})
	}
}
