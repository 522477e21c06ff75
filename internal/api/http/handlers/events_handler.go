package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/scentwork/partner-console/internal/api/dto"
	"github.com/scentwork/partner-console/internal/repository"
	apperrors "github.com/scentwork/partner-console/pkg/util"
)

// EventsHandler reads the durable event journal.
type EventsHandler struct {
	journal repository.EventJournalRepository
}

// NewEventsHandler constructs handler. A nil journal reports the audit trail
// as unavailable.
func NewEventsHandler(journal repository.EventJournalRepository) *EventsHandler {
	return &EventsHandler{journal: journal}
}

// ListByAggregate GET /admin/events/:aggregateId?limit=.
func (h *EventsHandler) ListByAggregate(c *fiber.Ctx) error {
	if h.journal == nil {
		return apperrors.NewDomainError("JOURNAL_DISABLED", "event journal not configured", fiber.StatusServiceUnavailable, nil)
	}
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 1000 {
			return apperrors.NewValidationError("limit must be between 1 and 1000", nil)
		}
		limit = parsed
	}
	entries, err := h.journal.ListByAggregate(c.UserContext(), c.Params("aggregateId"), limit)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	resp := make([]dto.JournalEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.JournalEntryResponse{
			ID:          e.ID,
			Type:        e.Type,
			AggregateID: e.AggregateID,
			ActorRole:   e.ActorRole,
			ActorID:     e.ActorID,
			Payload:     json.RawMessage(e.Payload),
			OccurredAt:  e.OccurredAt,
			RecordedAt:  e.RecordedAt,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}
