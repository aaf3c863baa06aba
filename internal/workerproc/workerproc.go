package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"learnpath-backend/internal/events"
	"learnpath-backend/internal/queue"
	"learnpath-backend/internal/shared/metrics"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrInvalidEvent indicates a well-formed payload that does not describe an event.
type ErrInvalidEvent struct {
	Meta      MessageMeta
	RequestID string
	Err       error
}

func (e ErrInvalidEvent) Error() string {
	if e.Err == nil {
		return "invalid event"
	}
	return e.Err.Error()
}

func (e ErrInvalidEvent) Unwrap() error { return e.Err }

// ErrStore indicates the event could not be written. The message should be retried.
type ErrStore struct {
	EventID   string
	RequestID string
	Err       error
}

func (e ErrStore) Error() string {
	if e.Err == nil {
		return "store event"
	}
	return "store event: " + e.Err.Error()
}

func (e ErrStore) Unwrap() error { return e.Err }

// Unrecoverable reports whether retrying the message can never succeed.
func Unrecoverable(err error) bool {
	var (
		empty   ErrEmptyBody
		decode  ErrDecode
		invalid ErrInvalidEvent
	)
	return errors.As(err, &empty) || errors.As(err, &decode) || errors.As(err, &invalid)
}

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if _, err := events.FromMessage(msg); err != nil {
		return msg, meta, ErrInvalidEvent{Meta: meta, RequestID: msg.RequestID, Err: err}
	}
	return msg, meta, nil
}

type parsedMessageKey struct{}

// WithParsedMessage stores a decoded message in the context for reuse.
func WithParsedMessage(ctx context.Context, msg queue.Message) context.Context {
	return context.WithValue(ctx, parsedMessageKey{}, msg)
}

func parsedMessageFromContext(ctx context.Context) (queue.Message, bool) {
	if ctx == nil {
		return queue.Message{}, false
	}
	msg, ok := ctx.Value(parsedMessageKey{}).(queue.Message)
	return msg, ok
}

// HandleMessage parses a payload and appends the event it carries to sink.
// Redelivered messages are harmless since Append ignores known event IDs.
func HandleMessage(ctx context.Context, sink events.Sink, body string) error {
	if sink == nil {
		return errors.New("event store not configured")
	}

	msg, ok := parsedMessageFromContext(ctx)
	if !ok {
		var err error
		msg, _, err = ParseMessage(body)
		if err != nil {
			metrics.IncWorkerMessages("dropped")
			return err
		}
	}

	event, err := events.FromMessage(msg)
	if err != nil {
		metrics.IncWorkerMessages("dropped")
		return ErrInvalidEvent{Meta: ComputeMeta(body), RequestID: msg.RequestID, Err: err}
	}

	ctx = events.WithRequestID(ctx, msg.RequestID)
	if err := sink.Append(ctx, event); err != nil {
		metrics.IncWorkerMessages("failed")
		return ErrStore{EventID: event.ID, RequestID: msg.RequestID, Err: err}
	}
	metrics.IncWorkerMessages("stored")
	return nil
}
