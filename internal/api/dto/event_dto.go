package dto

import (
	"encoding/json"
	"time"
)

// JournalEntryResponse is one recorded domain event.
type JournalEntryResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	AggregateID string          `json:"aggregate_id"`
	ActorRole   string          `json:"actor_role"`
	ActorID     string          `json:"actor_id"`
	Payload     json.RawMessage `json:"payload"`
	OccurredAt  time.Time       `json:"occurred_at"`
	RecordedAt  time.Time       `json:"recorded_at"`
}
