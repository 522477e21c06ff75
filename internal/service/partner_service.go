package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/scentwork/partner-console/internal/commission"
	"github.com/scentwork/partner-console/internal/domain"
	"github.com/scentwork/partner-console/internal/events"
	"github.com/scentwork/partner-console/internal/repository"
)

// PartnerService owns the partner record store.
type PartnerService struct {
	partners    repository.PartnerRepository
	ambassadors repository.AmbassadorRepository
	events      eventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

// PartnerDependencies bundles repositories for the partner service.
type PartnerDependencies struct {
	PartnerRepo    repository.PartnerRepository
	AmbassadorRepo repository.AmbassadorRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	Clock          func() time.Time
}

// PartnerView is a partner with its commission derived at read time.
type PartnerView struct {
	Partner    domain.Partner
	Commission commission.Breakdown
}

// NewPartnerService constructs the service.
func NewPartnerService(deps PartnerDependencies) *PartnerService {
	logger := loggerOrNop(deps.Logger)
	return &PartnerService{
		partners:    deps.PartnerRepo,
		ambassadors: deps.AmbassadorRepo,
		events:      eventPublisher{dispatcher: deps.Dispatcher, logger: logger},
		logger:      logger,
		now:         clockOrNow(deps.Clock),
	}
}

// create inserts an approved partner for the ambassador. It is reachable only
// through ApprovalService.Approve and publishes nothing: the caller publishes
// once the whole approval has committed.
func (s *PartnerService) create(ctx context.Context, ambassadorID, requestID string, candidate domain.CandidatePartner, model domain.DistributionModel) (*domain.Partner, error) {
	if _, err := s.ambassadors.GetByID(ctx, ambassadorID); err != nil {
		return nil, err
	}

	now := s.now()
	partner := &domain.Partner{
		ID:                uuid.NewString(),
		RequestID:         requestID,
		AmbassadorID:      ambassadorID,
		Name:              strings.TrimSpace(candidate.Name),
		Website:           strings.TrimSpace(candidate.Website),
		Contact:           candidate.Contact,
		Region:            strings.TrimSpace(candidate.Region),
		DistributionModel: model,
		Status:            domain.PartnerStatusApproved,
		PartnerCode:       domain.NewPartnerCode(candidate.Name),
		Levels:            zeroLevels(),
		BulkPurchaseValue: decimal.Zero,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.partners.Create(ctx, partner); err != nil {
		return nil, err
	}

	_, err := s.ambassadors.Mutate(ctx, ambassadorID, func(a *domain.Ambassador) error {
		a.PartnerIDs = append(a.PartnerIDs, partner.ID)
		a.UpdatedAt = now
		return nil
	})
	if err != nil {
		if delErr := s.partners.Delete(ctx, partner.ID); delErr != nil {
			s.logger.Error("failed to roll back partner", zap.String("partner_id", partner.ID), zap.Error(delErr))
		}
		return nil, err
	}
	return partner, nil
}

// remove undoes create. Used as the compensating action of a failed approval.
func (s *PartnerService) remove(ctx context.Context, partner *domain.Partner) error {
	if err := s.partners.Delete(ctx, partner.ID); err != nil {
		return err
	}
	_, err := s.ambassadors.Mutate(ctx, partner.AmbassadorID, func(a *domain.Ambassador) error {
		kept := a.PartnerIDs[:0]
		for _, id := range a.PartnerIDs {
			if id != partner.ID {
				kept = append(kept, id)
			}
		}
		a.PartnerIDs = kept
		return nil
	})
	return err
}

// RecordActivity atomically adds to a level's count and revenue. Level is 1-based.
func (s *PartnerService) RecordActivity(ctx context.Context, partnerID string, level int, deltaCount int64, deltaRevenue decimal.Decimal, actor domain.Actor) (*PartnerView, error) {
	if level < 1 || level > domain.LevelCount {
		return nil, fmt.Errorf("level %d: %w", level, domain.ErrInvalidLevel)
	}
	if deltaCount < 0 || deltaRevenue.IsNegative() {
		return nil, fmt.Errorf("count %d revenue %s: %w", deltaCount, deltaRevenue, domain.ErrInvalidActivity)
	}

	now := s.now()
	updated, err := s.partners.Mutate(ctx, partnerID, func(p *domain.Partner) error {
		slot := &p.Levels[level-1]
		slot.Count += deltaCount
		slot.Revenue = slot.Revenue.Add(deltaRevenue)
		p.UpdatedAt = now
		p.LastActivityAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("partner activity recorded",
		zap.String("partner_id", updated.ID),
		zap.Int("level", level),
		zap.Int64("delta_count", deltaCount),
		zap.String("delta_revenue", deltaRevenue.String()))
	s.events.publish(ctx, events.Event{
		Type:        events.EventPartnerActivityRecorded,
		AggregateID: updated.ID,
		Actor:       eventActor(actor),
		Payload: events.PartnerActivityRecordedPayload{
			Level:        level,
			DeltaCount:   deltaCount,
			DeltaRevenue: deltaRevenue.String(),
		},
	})
	return viewOf(updated), nil
}

// RecordBulkPurchase adds a prepaid purchase to a bulk-buy partner.
func (s *PartnerService) RecordBulkPurchase(ctx context.Context, partnerID string, amount decimal.Decimal, actor domain.Actor) (*PartnerView, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("bulk purchase %s: %w", amount, domain.ErrInvalidActivity)
	}

	now := s.now()
	updated, err := s.partners.Mutate(ctx, partnerID, func(p *domain.Partner) error {
		if p.DistributionModel != domain.ModelBulkBuy {
			return fmt.Errorf("partner %s uses %s: %w", p.ID, p.DistributionModel, domain.ErrModelMismatch)
		}
		p.BulkPurchaseValue = p.BulkPurchaseValue.Add(amount)
		p.UpdatedAt = now
		p.LastActivityAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:        events.EventPartnerBulkPurchaseAdded,
		AggregateID: updated.ID,
		Actor:       eventActor(actor),
		Payload: events.PartnerBulkPurchasePayload{
			Amount: amount.String(),
			Total:  updated.BulkPurchaseValue.String(),
		},
	})
	return viewOf(updated), nil
}

// UpdateStatus moves a partner through its post-approval lifecycle.
func (s *PartnerService) UpdateStatus(ctx context.Context, partnerID string, status domain.PartnerStatus, actor domain.Actor) (*PartnerView, error) {
	var oldStatus domain.PartnerStatus
	now := s.now()
	updated, err := s.partners.Mutate(ctx, partnerID, func(p *domain.Partner) error {
		if !isValidPartnerTransition(p.Status, status) {
			return fmt.Errorf("%s -> %s: %w", p.Status, status, domain.ErrInvalidTransition)
		}
		oldStatus = p.Status
		p.Status = status
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("partner status changed",
		zap.String("partner_id", updated.ID),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(status)))
	s.events.publish(ctx, events.Event{
		Type:        events.EventPartnerStatusChanged,
		AggregateID: updated.ID,
		Actor:       eventActor(actor),
		Payload:     events.PartnerStatusChangedPayload{OldStatus: oldStatus, NewStatus: status},
	})
	return viewOf(updated), nil
}

// Get returns a partner with commission computed on read.
func (s *PartnerService) Get(ctx context.Context, partnerID string) (*PartnerView, error) {
	partner, err := s.partners.GetByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	return viewOf(partner), nil
}

// ListByAmbassador returns an ambassador's partners, oldest first.
func (s *PartnerService) ListByAmbassador(ctx context.Context, ambassadorID string) ([]PartnerView, error) {
	if _, err := s.ambassadors.GetByID(ctx, ambassadorID); err != nil {
		return nil, err
	}
	partners, err := s.partners.ListByAmbassador(ctx, ambassadorID)
	if err != nil {
		return nil, err
	}
	views := make([]PartnerView, 0, len(partners))
	for i := range partners {
		views = append(views, *viewOf(&partners[i]))
	}
	return views, nil
}

// CommissionSummary rolls up derived commission across an ambassador's partners.
func (s *PartnerService) CommissionSummary(ctx context.Context, ambassadorID string) (commission.Summary, error) {
	views, err := s.ListByAmbassador(ctx, ambassadorID)
	if err != nil {
		return commission.Summary{}, err
	}
	breakdowns := make([]commission.Breakdown, 0, len(views))
	for _, v := range views {
		breakdowns = append(breakdowns, v.Commission)
	}
	return commission.Rollup(breakdowns...), nil
}

func viewOf(p *domain.Partner) *PartnerView {
	return &PartnerView{Partner: *p, Commission: commission.ForPartner(p)}
}

func zeroLevels() domain.Levels {
	var levels domain.Levels
	for i := range levels {
		levels[i] = domain.LevelActivity{Count: 0, Revenue: decimal.Zero}
	}
	return levels
}

var allowedPartnerTransitions = map[domain.PartnerStatus][]domain.PartnerStatus{
	domain.PartnerStatusPendingReview:    {domain.PartnerStatusApproved, domain.PartnerStatusChangesRequested, domain.PartnerStatusRejected},
	domain.PartnerStatusApproved:         {domain.PartnerStatusPaused, domain.PartnerStatusChangesRequested},
	domain.PartnerStatusPaused:           {domain.PartnerStatusApproved},
	domain.PartnerStatusChangesRequested: {domain.PartnerStatusApproved, domain.PartnerStatusRejected},
	domain.PartnerStatusRejected:         {},
}

func isValidPartnerTransition(current, next domain.PartnerStatus) bool {
	for _, candidate := range allowedPartnerTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
