package queue

import json "github.com/goccy/go-json"

// MessageVersion is the current payload schema version.
const MessageVersion = 1

// Message is a recommendation event in transit to the event worker.
type Message struct {
	EventID             string `json:"eventId"`
	LearnerID           string `json:"learnerId"`
	LearnerDisplayName  string `json:"learnerDisplayName,omitempty"`
	RecommendationCount int    `json:"recommendationCount"`
	Mode                string `json:"mode"`
	Source              string `json:"source"`
	CreatedAt           string `json:"createdAt"`
	RequestID           string `json:"requestId,omitempty"`
	Version             int    `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
