package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type fakeSendAPI struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (f *fakeSendAPI) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

func TestSQSClientSendEncodesBody(t *testing.T) {
	api := &fakeSendAPI{}
	client := &SQSClient{client: api, queueURL: "https://sqs.us-east-1.amazonaws.com/123/recs-events"}

	err := client.Send(context.Background(), Message{EventID: "e1", LearnerID: "l1", Mode: "BROWSE", Version: MessageVersion})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(api.inputs) != 1 {
		t.Fatalf("expected one send, got %d", len(api.inputs))
	}
	got, err := DecodeMessage([]byte(aws.ToString(api.inputs[0].MessageBody)))
	if err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.EventID != "e1" || got.LearnerID != "l1" {
		t.Fatalf("unexpected body: %+v", got)
	}
	if api.inputs[0].MessageGroupId != nil {
		t.Fatalf("standard queues must not set a message group")
	}
}

func TestSQSClientFIFOSetsDedupID(t *testing.T) {
	api := &fakeSendAPI{}
	client := &SQSClient{client: api, queueURL: "https://sqs.us-east-1.amazonaws.com/123/recs-events.fifo"}

	if err := client.Send(context.Background(), Message{EventID: "e1", LearnerID: "l1"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	in := api.inputs[0]
	if aws.ToString(in.MessageGroupId) != "l1" || aws.ToString(in.MessageDeduplicationId) != "e1" {
		t.Fatalf("unexpected fifo attributes: group=%v dedup=%v", aws.ToString(in.MessageGroupId), aws.ToString(in.MessageDeduplicationId))
	}
}

func TestSQSClientWrapsSendError(t *testing.T) {
	boom := errors.New("throttled")
	client := &SQSClient{client: &fakeSendAPI{err: boom}, queueURL: "q"}
	if err := client.Send(context.Background(), Message{EventID: "e1"}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestNewSQSClientRequiresQueueURL(t *testing.T) {
	if _, err := NewSQSClient(context.Background(), "us-east-1", " "); err == nil {
		t.Fatalf("expected error for empty queue url")
	}
}
