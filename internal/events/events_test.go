package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnpath-backend/internal/queue"
)

func TestMemoryRepoAppendIsIdempotent(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	base := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)

	e1 := Event{ID: "e1", LearnerID: "l1", Mode: "BROWSE", CreatedAt: base}
	e2 := Event{ID: "e2", LearnerID: "l1", Mode: "ONBOARDING", CreatedAt: base.Add(time.Minute)}
	e3 := Event{ID: "e3", LearnerID: "l2", Mode: "BROWSE", CreatedAt: base}

	for _, e := range []Event{e1, e2, e1, e3} {
		require.NoError(t, repo.Append(ctx, e))
	}
	assert.Equal(t, 3, repo.Len())

	got, err := repo.ListByLearner(ctx, "l1", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e2", got[0].ID, "newest first")

	limited, err := repo.ListByLearner(ctx, "l1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestNewStampsIDAndTime(t *testing.T) {
	e := New("l1", "Ada", "BROWSE", "personalized", 4)
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.CreatedAt.IsZero())
	assert.Equal(t, 4, e.RecommendationCount)
	assert.NotEqual(t, e.ID, New("l1", "Ada", "BROWSE", "personalized", 4).ID)
}

func TestMessageConversion(t *testing.T) {
	e := Event{
		ID:                  "e1",
		LearnerID:           "l1",
		LearnerDisplayName:  "Ada",
		RecommendationCount: 2,
		Mode:                "ONBOARDING",
		Source:              "personalized",
		CreatedAt:           time.Date(2026, time.April, 1, 12, 0, 0, 123, time.UTC),
	}
	msg := ToMessage(e, "req-1")
	assert.Equal(t, "req-1", msg.RequestID)
	assert.Equal(t, queue.MessageVersion, msg.Version)

	back, err := FromMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, e, back)

	_, err = FromMessage(queue.Message{LearnerID: "l1", CreatedAt: msg.CreatedAt})
	assert.ErrorIs(t, err, ErrInvalidMessage)
	_, err = FromMessage(queue.Message{EventID: "e1", LearnerID: "l1", CreatedAt: "yesterday"})
	assert.ErrorIs(t, err, ErrInvalidMessage)
}

func TestPGRepoAppendIgnoresDuplicates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO recommendation_events .* ON CONFLICT \(id\) DO NOTHING`).
		WithArgs("e1", "l1", "Ada", 3, "BROWSE", "popular", created).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	require.NoError(t, repo.Append(context.Background(), Event{
		ID: "e1", LearnerID: "l1", LearnerDisplayName: "Ada", RecommendationCount: 3,
		Mode: "BROWSE", Source: "popular", CreatedAt: created,
	}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoListByLearnerDefaultsLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM recommendation_events").
		WithArgs("l1", 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "learner_id", "learner_display_name", "recommendation_count", "mode", "source", "created_at"}).
			AddRow("e1", "l1", "Ada", 3, "BROWSE", "personalized", created))

	repo := &PGRepo{DB: db}
	got, err := repo.ListByLearner(context.Background(), "l1", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].RecommendationCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPublisherSendsWithRequestID(t *testing.T) {
	var sent []queue.Message
	q := queue.ClientFunc(func(ctx context.Context, msg queue.Message) error {
		sent = append(sent, msg)
		return nil
	})
	p := NewPublisher(q, DefaultBreakerSettings())

	ctx := WithRequestID(context.Background(), "req-9")
	require.NoError(t, p.Append(ctx, New("l1", "", "BROWSE", "personalized", 1)))
	require.Len(t, sent, 1)
	assert.Equal(t, "req-9", sent[0].RequestID)
	assert.Equal(t, "l1", sent[0].LearnerID)
	assert.Equal(t, "closed", p.State())
}

func TestPublisherOpensAfterConsecutiveFailures(t *testing.T) {
	boom := errors.New("sqs down")
	q := queue.ClientFunc(func(context.Context, queue.Message) error { return boom })
	p := NewPublisher(q, BreakerSettings{FailureThreshold: 3, OpenTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		err := p.Append(context.Background(), New("l1", "", "BROWSE", "personalized", 1))
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, "open", p.State())

	err := p.Append(context.Background(), New("l1", "", "BROWSE", "personalized", 1))
	assert.ErrorIs(t, err, ErrPublisherUnavailable)
}
