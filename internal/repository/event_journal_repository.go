package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// JournalEntry is a persisted domain event.
type JournalEntry struct {
	ID          string
	Type        string
	AggregateID string
	ActorRole   string
	ActorID     string
	Payload     []byte
	OccurredAt  time.Time
	RecordedAt  time.Time
}

// EventJournalRepository appends domain events to the durable journal.
type EventJournalRepository interface {
	Append(ctx context.Context, entry *JournalEntry) error
	ListByAggregate(ctx context.Context, aggregateID string, limit int) ([]JournalEntry, error)
}

type eventJournalRepository struct {
	pool *pgxpool.Pool
}

// NewEventJournalRepository builds repository.
func NewEventJournalRepository(pool *pgxpool.Pool) EventJournalRepository {
	return &eventJournalRepository{pool: pool}
}

func (r *eventJournalRepository) Append(ctx context.Context, entry *JournalEntry) error {
	const query = `
        INSERT INTO console_events (id, event_type, aggregate_id, actor_role, actor_id, payload, occurred_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (id) DO NOTHING
        RETURNING recorded_at`
	err := r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.Type,
		entry.AggregateID,
		entry.ActorRole,
		entry.ActorID,
		entry.Payload,
		entry.OccurredAt,
	).Scan(&entry.RecordedAt)
	if err != nil && !isNoRows(err) {
		return err
	}
	return nil
}

func (r *eventJournalRepository) ListByAggregate(ctx context.Context, aggregateID string, limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `
        SELECT id, event_type, aggregate_id, actor_role, actor_id, payload, occurred_at, recorded_at
        FROM console_events WHERE aggregate_id=$1 ORDER BY occurred_at ASC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, aggregateID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []JournalEntry
	for rows.Next() {
		var entry JournalEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Type,
			&entry.AggregateID,
			&entry.ActorRole,
			&entry.ActorID,
			&entry.Payload,
			&entry.OccurredAt,
			&entry.RecordedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
