package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scentwork/partner-console/internal/domain"
	"github.com/scentwork/partner-console/internal/events"
	"github.com/scentwork/partner-console/internal/repository"
)

// QualificationService is the single source of truth for whether an
// ambassador may introduce partners. Qualification is an admin decision and
// is never inferred from activity.
type QualificationService struct {
	ambassadors repository.AmbassadorRepository
	events      eventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

// QualificationDependencies bundles collaborators for the qualification gate.
type QualificationDependencies struct {
	AmbassadorRepo repository.AmbassadorRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	Clock          func() time.Time
}

// RegisterAmbassadorInput describes a new ambassador record.
type RegisterAmbassadorInput struct {
	ID    string
	Name  string
	Email string
	Tier  domain.QualificationTier
}

// NewQualificationService constructs the service.
func NewQualificationService(deps QualificationDependencies) *QualificationService {
	logger := loggerOrNop(deps.Logger)
	return &QualificationService{
		ambassadors: deps.AmbassadorRepo,
		events:      eventPublisher{dispatcher: deps.Dispatcher, logger: logger},
		logger:      logger,
		now:         clockOrNow(deps.Clock),
	}
}

// RegisterAmbassador onboards an ambassador. New ambassadors start unqualified.
func (s *QualificationService) RegisterAmbassador(ctx context.Context, input RegisterAmbassadorInput, actor domain.Actor) (*domain.Ambassador, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("name required: %w", domain.ErrInvalidAmbassador)
	}
	email := strings.TrimSpace(input.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("email %q: %w", email, domain.ErrInvalidAmbassador)
		}
	}
	tier := input.Tier
	if tier == "" {
		tier = domain.TierStandard
	}
	if !domain.ValidTier(tier) {
		return nil, fmt.Errorf("tier %q: %w", tier, domain.ErrInvalidAmbassador)
	}
	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = uuid.NewString()
	}

	now := s.now()
	ambassador := &domain.Ambassador{
		ID:        id,
		Name:      name,
		Email:     email,
		Tier:      tier,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.ambassadors.Create(ctx, ambassador); err != nil {
		return nil, err
	}

	s.logger.Info("ambassador registered", zap.String("ambassador_id", id), zap.String("tier", string(tier)))
	s.events.publish(ctx, events.Event{
		Type:        events.EventAmbassadorRegistered,
		AggregateID: id,
		Actor:       eventActor(actor),
		Payload:     events.AmbassadorRegisteredPayload{Name: name, Tier: tier},
	})
	return ambassador, nil
}

// SetQualification records an admin decision. Callers are assumed to be
// authorized already.
func (s *QualificationService) SetQualification(ctx context.Context, ambassadorID string, qualified bool, actor domain.Actor, note string) (*domain.Ambassador, error) {
	var previous bool
	now := s.now()
	updated, err := s.ambassadors.Mutate(ctx, ambassadorID, func(a *domain.Ambassador) error {
		previous = a.Qualified
		a.Qualified = qualified
		a.UpdatedAt = now
		a.QualificationHistory = append(a.QualificationHistory, domain.QualificationChange{
			Qualified: qualified,
			ChangedBy: actor.ID,
			Note:      strings.TrimSpace(note),
			ChangedAt: now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ambassador qualification set",
		zap.String("ambassador_id", updated.ID),
		zap.Bool("previous", previous),
		zap.Bool("qualified", qualified),
		zap.String("changed_by", actor.ID))
	s.events.publish(ctx, events.Event{
		Type:        events.EventQualificationChanged,
		AggregateID: updated.ID,
		Actor:       eventActor(actor),
		Payload: events.QualificationChangedPayload{
			Previous: previous,
			Current:  qualified,
			Note:     strings.TrimSpace(note),
		},
	})
	return updated, nil
}

// IsQualified reads the current qualification flag.
func (s *QualificationService) IsQualified(ctx context.Context, ambassadorID string) (bool, error) {
	ambassador, err := s.ambassadors.GetByID(ctx, ambassadorID)
	if err != nil {
		return false, err
	}
	return ambassador.Qualified, nil
}

// GetAmbassador returns an ambassador record.
func (s *QualificationService) GetAmbassador(ctx context.Context, ambassadorID string) (*domain.Ambassador, error) {
	return s.ambassadors.GetByID(ctx, ambassadorID)
}

// History returns the qualification audit trail, oldest first.
func (s *QualificationService) History(ctx context.Context, ambassadorID string) ([]domain.QualificationChange, error) {
	ambassador, err := s.ambassadors.GetByID(ctx, ambassadorID)
	if err != nil {
		return nil, err
	}
	return ambassador.QualificationHistory, nil
}
