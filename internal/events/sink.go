package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// Sink is an external destination for domain events.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event Event) error
}

// Encode renders an event as the JSON envelope shared by every sink.
func Encode(event Event) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", event.ID, err)
	}
	return body, nil
}

func encodePayload(payload interface{}) ([]byte, error) {
	if payload == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(payload)
}
