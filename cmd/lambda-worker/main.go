package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=amd64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-worker

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"learnpath-backend/internal/bootstrap"
	recevents "learnpath-backend/internal/events"
	"learnpath-backend/internal/shared/config"
	"learnpath-backend/internal/shared/metrics"
	"learnpath-backend/internal/shared/telemetry"
	"learnpath-backend/internal/workerproc"
)

// buildApp is swapped in tests.
var buildApp = bootstrap.Build

var (
	initMu sync.Mutex
	sink   recevents.Sink
)

// eventSink returns the event store, building the app on first use. A failed
// build is retried by the next invocation instead of poisoning the environment.
func eventSink() (recevents.Sink, error) {
	initMu.Lock()
	defer initMu.Unlock()
	if sink != nil {
		return sink, nil
	}
	built, err := buildApp(config.Load())
	if err != nil {
		return nil, err
	}
	// Consumer side: events go to the store, never back onto the queue.
	sink = built.EventsRepo
	return sink, nil
}

func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	defer telemetry.Sync()

	store, err := eventSink()
	if err != nil {
		telemetry.Error("worker.bootstrap_failed", map[string]any{"records": len(event.Records), "error": err})
		failures := make([]events.SQSBatchItemFailure, 0, len(event.Records))
		for _, record := range event.Records {
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
		return events.SQSEventResponse{BatchItemFailures: failures}, err
	}
	return processRecords(ctx, store, event.Records), nil
}

// processRecords reports only retryable failures; malformed records are
// dropped so they do not cycle through the queue.
func processRecords(ctx context.Context, sink recevents.Sink, records []events.SQSMessage) events.SQSEventResponse {
	failures := make([]events.SQSBatchItemFailure, 0)
	for _, record := range records {
		metrics.IncWorkerMessages("received")
		err := workerproc.HandleMessage(ctx, sink, record.Body)
		if err == nil {
			continue
		}
		fields := map[string]any{
			"sqs_message_id": record.MessageId,
			"error":          err.Error(),
		}
		if workerproc.Unrecoverable(err) {
			telemetry.Error("worker.event.invalid", fields)
			continue
		}
		telemetry.Error("worker.event.failed", fields)
		failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
	}
	return events.SQSEventResponse{BatchItemFailures: failures}
}

func main() {
	lambda.Start(handler)
}
