package events

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"learnpath-backend/internal/queue"
)

// ErrInvalidMessage marks a queue payload that cannot become an event.
var ErrInvalidMessage = errors.New("invalid event message")

// ToMessage converts an event into its queue payload.
func ToMessage(e Event, requestID string) queue.Message {
	return queue.Message{
		EventID:             e.ID,
		LearnerID:           e.LearnerID,
		LearnerDisplayName:  e.LearnerDisplayName,
		RecommendationCount: e.RecommendationCount,
		Mode:                e.Mode,
		Source:              e.Source,
		CreatedAt:           e.CreatedAt.UTC().Format(time.RFC3339Nano),
		RequestID:           requestID,
		Version:             queue.MessageVersion,
	}
}

// FromMessage rebuilds an event from a queue payload.
func FromMessage(msg queue.Message) (Event, error) {
	if strings.TrimSpace(msg.EventID) == "" {
		return Event{}, fmt.Errorf("%w: missing event id", ErrInvalidMessage)
	}
	if strings.TrimSpace(msg.LearnerID) == "" {
		return Event{}, fmt.Errorf("%w: missing learner id", ErrInvalidMessage)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, msg.CreatedAt)
	if err != nil {
		return Event{}, fmt.Errorf("%w: createdAt: %v", ErrInvalidMessage, err)
	}
	return Event{
		ID:                  msg.EventID,
		LearnerID:           msg.LearnerID,
		LearnerDisplayName:  msg.LearnerDisplayName,
		RecommendationCount: msg.RecommendationCount,
		Mode:                msg.Mode,
		Source:              msg.Source,
		CreatedAt:           createdAt.UTC(),
	}, nil
}
