package events

import (
	"context"
	"fmt"

	"github.com/scentwork/partner-console/internal/repository"
)

// JournalSink persists events to the Postgres journal. Redelivery of the same
// event id is a no-op.
type JournalSink struct {
	journal repository.EventJournalRepository
}

// NewJournalSink builds a sink over the journal repository.
func NewJournalSink(journal repository.EventJournalRepository) *JournalSink {
	return &JournalSink{journal: journal}
}

func (s *JournalSink) Name() string { return "journal" }

func (s *JournalSink) Deliver(ctx context.Context, event Event) error {
	payload, err := encodePayload(event.Payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	return s.journal.Append(ctx, &repository.JournalEntry{
		ID:          event.ID,
		Type:        string(event.Type),
		AggregateID: event.AggregateID,
		ActorRole:   string(event.Actor.Role),
		ActorID:     event.Actor.ID,
		Payload:     payload,
		OccurredAt:  event.Timestamp,
	})
}
