package service

import (
	"context"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scentwork/partner-console/internal/domain"
	"github.com/scentwork/partner-console/internal/events"
	"github.com/scentwork/partner-console/internal/repository"
)

// ApprovalService stages candidate partners for admin review.
type ApprovalService struct {
	// mu serializes resolutions so a request is approved or rejected at most
	// once. Request listings take it too.
	mu          sync.Mutex
	requests    repository.ApprovalRepository
	ambassadors repository.AmbassadorRepository
	partners    *PartnerService
	events      eventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

// ApprovalDependencies bundles collaborators for the approval queue.
type ApprovalDependencies struct {
	ApprovalRepo   repository.ApprovalRepository
	AmbassadorRepo repository.AmbassadorRepository
	Partners       *PartnerService
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	Clock          func() time.Time
}

// SubmitInput describes a partner introduction.
type SubmitInput struct {
	Candidate domain.CandidatePartner
	// Domain defaults to the candidate website host.
	Domain    string
	RiskScore float64
}

// NewApprovalService constructs the service.
func NewApprovalService(deps ApprovalDependencies) *ApprovalService {
	logger := loggerOrNop(deps.Logger)
	return &ApprovalService{
		requests:    deps.ApprovalRepo,
		ambassadors: deps.AmbassadorRepo,
		partners:    deps.Partners,
		events:      eventPublisher{dispatcher: deps.Dispatcher, logger: logger},
		logger:      logger,
		now:         clockOrNow(deps.Clock),
	}
}

// Submit enqueues a candidate on behalf of an ambassador. Qualification is
// read at submission time under the ambassador's lock, so a revocation that
// lands first always wins.
func (s *ApprovalService) Submit(ctx context.Context, ambassadorID string, input SubmitInput, actor domain.Actor) (*domain.ApprovalRequest, error) {
	candidate, err := normalizeCandidate(input.Candidate)
	if err != nil {
		return nil, err
	}
	if input.RiskScore < 0 || input.RiskScore > 1 {
		return nil, fmt.Errorf("risk score %v outside [0,1]: %w", input.RiskScore, domain.ErrInvalidCandidate)
	}
	riskDomain := strings.ToLower(strings.TrimSpace(input.Domain))
	if riskDomain == "" {
		riskDomain = domainFromWebsite(candidate.Website)
	}

	request := &domain.ApprovalRequest{
		ID:          uuid.NewString(),
		Candidate:   candidate,
		Domain:      riskDomain,
		RiskScore:   input.RiskScore,
		Status:      domain.RequestStatusAwaitingAdmin,
		SubmittedAt: s.now(),
	}

	_, err = s.ambassadors.Mutate(ctx, ambassadorID, func(a *domain.Ambassador) error {
		if !a.Qualified {
			return fmt.Errorf("ambassador %s: %w", a.ID, domain.ErrAmbassadorNotQualified)
		}
		request.AmbassadorID = a.ID
		return s.requests.Create(ctx, request)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("partner request submitted",
		zap.String("request_id", request.ID),
		zap.String("ambassador_id", request.AmbassadorID),
		zap.String("candidate", candidate.Name))
	s.events.publish(ctx, events.Event{
		Type:        events.EventPartnerRequestSubmitted,
		AggregateID: request.ID,
		Actor:       eventActor(actor),
		Payload: events.PartnerRequestSubmittedPayload{
			AmbassadorID:  request.AmbassadorID,
			CandidateName: candidate.Name,
			Domain:        request.Domain,
			RiskScore:     request.RiskScore,
			Model:         candidate.PreferredModel,
		},
	})
	return request.Clone(), nil
}

// Approve promotes a pending request to a partner using the resolved
// distribution model. An empty model falls back to the candidate's preference.
// A request that is unknown or already resolved yields ErrUnknownRequest.
func (s *ApprovalService) Approve(ctx context.Context, requestID string, model domain.DistributionModel, actor domain.Actor) (*domain.Partner, error) {
	partner, request, err := s.approve(ctx, requestID, model, actor)
	if err != nil {
		return nil, err
	}

	s.logger.Info("partner request approved",
		zap.String("request_id", request.ID),
		zap.String("partner_id", partner.ID),
		zap.String("model", string(partner.DistributionModel)),
		zap.String("approved_by", actor.ID))
	s.events.publish(ctx, events.Event{
		Type:        events.EventPartnerCreated,
		AggregateID: partner.ID,
		Actor:       eventActor(actor),
		Payload: events.PartnerCreatedPayload{
			AmbassadorID: partner.AmbassadorID,
			RequestID:    request.ID,
			Name:         partner.Name,
			Model:        partner.DistributionModel,
			PartnerCode:  partner.PartnerCode,
		},
	})
	s.events.publish(ctx, events.Event{
		Type:        events.EventPartnerRequestApproved,
		AggregateID: request.ID,
		Actor:       eventActor(actor),
		Payload: events.PartnerRequestResolvedPayload{
			Status:    request.Status,
			PartnerID: partner.ID,
		},
	})
	return partner, nil
}

func (s *ApprovalService) approve(ctx context.Context, requestID string, model domain.DistributionModel, actor domain.Actor) (*domain.Partner, *domain.ApprovalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, err := s.pendingRequest(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if model == "" {
		model = request.Candidate.PreferredModel
	}
	if !domain.ValidModel(model) {
		return nil, nil, fmt.Errorf("distribution model %q: %w", model, domain.ErrInvalidCandidate)
	}

	// the partner exists before the request reads as approved
	partner, err := s.partners.create(ctx, request.AmbassadorID, request.ID, request.Candidate, model)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	resolved, err := s.requests.Mutate(ctx, requestID, func(r *domain.ApprovalRequest) error {
		if r.Status != domain.RequestStatusAwaitingAdmin {
			return fmt.Errorf("request %s is %s: %w", r.ID, r.Status, domain.ErrUnknownRequest)
		}
		r.Status = domain.RequestStatusApproved
		r.ResolvedAt = &now
		r.ResolvedBy = actor.ID
		r.PartnerID = partner.ID
		return nil
	})
	if err != nil {
		if rbErr := s.partners.remove(ctx, partner); rbErr != nil {
			s.logger.Error("failed to compensate partner creation",
				zap.String("request_id", requestID),
				zap.String("partner_id", partner.ID),
				zap.Error(rbErr))
		}
		return nil, nil, err
	}
	return partner, resolved, nil
}

// Reject closes a pending request. It stays readable through Get for audit.
func (s *ApprovalService) Reject(ctx context.Context, requestID, reason string, actor domain.Actor) (*domain.ApprovalRequest, error) {
	resolved, err := s.reject(ctx, requestID, reason, actor)
	if err != nil {
		return nil, err
	}

	s.logger.Info("partner request rejected",
		zap.String("request_id", resolved.ID),
		zap.String("rejected_by", actor.ID))
	s.events.publish(ctx, events.Event{
		Type:        events.EventPartnerRequestRejected,
		AggregateID: resolved.ID,
		Actor:       eventActor(actor),
		Payload: events.PartnerRequestResolvedPayload{
			Status: resolved.Status,
			Reason: resolved.RejectionReason,
		},
	})
	return resolved, nil
}

func (s *ApprovalService) reject(ctx context.Context, requestID, reason string, actor domain.Actor) (*domain.ApprovalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	return s.requests.Mutate(ctx, requestID, func(r *domain.ApprovalRequest) error {
		if r.Status != domain.RequestStatusAwaitingAdmin {
			return fmt.Errorf("request %s is %s: %w", r.ID, r.Status, domain.ErrUnknownRequest)
		}
		r.Status = domain.RequestStatusRejected
		r.ResolvedAt = &now
		r.ResolvedBy = actor.ID
		r.RejectionReason = strings.TrimSpace(reason)
		return nil
	})
}

// ListPending returns requests awaiting review, oldest first, optionally
// narrowed by a case-insensitive substring of the candidate name. It waits
// for in-flight resolutions so a request whose partner already exists is
// never listed as pending.
func (s *ApprovalService) ListPending(ctx context.Context, query string) ([]domain.ApprovalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests.List(ctx, repository.ApprovalFilter{
		Statuses:   []domain.RequestStatus{domain.RequestStatusAwaitingAdmin},
		SearchTerm: query,
	})
}

// ListByAmbassador returns every request an ambassador submitted.
func (s *ApprovalService) ListByAmbassador(ctx context.Context, ambassadorID string) ([]domain.ApprovalRequest, error) {
	if _, err := s.ambassadors.GetByID(ctx, ambassadorID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests.List(ctx, repository.ApprovalFilter{AmbassadorID: &ambassadorID})
}

// Get returns a request in any state.
func (s *ApprovalService) Get(ctx context.Context, requestID string) (*domain.ApprovalRequest, error) {
	return s.requests.GetByID(ctx, requestID)
}

func (s *ApprovalService) pendingRequest(ctx context.Context, requestID string) (*domain.ApprovalRequest, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != domain.RequestStatusAwaitingAdmin {
		return nil, fmt.Errorf("request %s is %s: %w", request.ID, request.Status, domain.ErrUnknownRequest)
	}
	return request, nil
}

func normalizeCandidate(c domain.CandidatePartner) (domain.CandidatePartner, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Website = strings.TrimSpace(c.Website)
	c.Region = strings.TrimSpace(c.Region)
	c.Contact.Name = strings.TrimSpace(c.Contact.Name)
	c.Contact.Email = strings.TrimSpace(c.Contact.Email)
	c.Contact.Title = strings.TrimSpace(c.Contact.Title)
	if c.Name == "" {
		return c, fmt.Errorf("name required: %w", domain.ErrInvalidCandidate)
	}
	if c.Contact.Email != "" {
		if _, err := mail.ParseAddress(c.Contact.Email); err != nil {
			return c, fmt.Errorf("contact email %q: %w", c.Contact.Email, domain.ErrInvalidCandidate)
		}
	}
	if c.PreferredModel == "" {
		c.PreferredModel = domain.ModelPassThrough
	}
	if !domain.ValidModel(c.PreferredModel) {
		return c, fmt.Errorf("preferred model %q: %w", c.PreferredModel, domain.ErrInvalidCandidate)
	}
	return c, nil
}

func domainFromWebsite(website string) string {
	if website == "" {
		return ""
	}
	if !strings.Contains(website, "://") {
		website = "https://" + website
	}
	parsed, err := url.Parse(website)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
}
