package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scentwork/partner-console/internal/domain"
	"github.com/scentwork/partner-console/internal/events"
	"github.com/scentwork/partner-console/internal/repository"
)

var (
	admin      = domain.Actor{Role: domain.RoleAdmin, ID: "admin_1"}
	ambassador = domain.Actor{Role: domain.RoleAmbassador, ID: "amb_1"}
)

type fixture struct {
	ambassadors   repository.AmbassadorRepository
	partnerRepo   repository.PartnerRepository
	approvalRepo  repository.ApprovalRepository
	dispatcher    events.Dispatcher
	recorder      *eventRecorder
	qualification *QualificationService
	partners      *PartnerService
	approvals     *ApprovalService
}

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) handle(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// steppingClock hands out strictly increasing instants.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	current := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithApprovalRepo(t, repository.NewApprovalRepository())
}

func newFixtureWithApprovalRepo(t *testing.T, approvalRepo repository.ApprovalRepository) *fixture {
	t.Helper()
	clock := steppingClock()
	f := &fixture{
		ambassadors:  repository.NewAmbassadorRepository(),
		partnerRepo:  repository.NewPartnerRepository(),
		approvalRepo: approvalRepo,
		dispatcher:   events.NewInMemoryDispatcher(),
		recorder:     &eventRecorder{},
	}
	events.SubscribeAll(f.dispatcher, f.recorder.handle)

	f.qualification = NewQualificationService(QualificationDependencies{
		AmbassadorRepo: f.ambassadors,
		Dispatcher:     f.dispatcher,
		Clock:          clock,
	})
	f.partners = NewPartnerService(PartnerDependencies{
		PartnerRepo:    f.partnerRepo,
		AmbassadorRepo: f.ambassadors,
		Dispatcher:     f.dispatcher,
		Clock:          clock,
	})
	f.approvals = NewApprovalService(ApprovalDependencies{
		ApprovalRepo:   f.approvalRepo,
		AmbassadorRepo: f.ambassadors,
		Partners:       f.partners,
		Dispatcher:     f.dispatcher,
		Clock:          clock,
	})
	return f
}

func (f *fixture) registerAmbassador(t *testing.T, id string, qualified bool) {
	t.Helper()
	ctx := context.Background()
	_, err := f.qualification.RegisterAmbassador(ctx, RegisterAmbassadorInput{ID: id, Name: "Sarah Thompson", Email: "sarah@scentwork.ai"}, admin)
	require.NoError(t, err)
	if qualified {
		_, err = f.qualification.SetQualification(ctx, id, true, admin, "onboarded")
		require.NoError(t, err)
	}
}

func (f *fixture) submit(t *testing.T, ambassadorID, name string) *domain.ApprovalRequest {
	t.Helper()
	request, err := f.approvals.Submit(context.Background(), ambassadorID, SubmitInput{
		Candidate: domain.CandidatePartner{Name: name, Website: "https://" + name + ".example", Region: "US"},
		RiskScore: 0.1,
	}, ambassador)
	require.NoError(t, err)
	return request
}

func (f *fixture) approvedPartner(t *testing.T, ambassadorID, name string, model domain.DistributionModel) *domain.Partner {
	t.Helper()
	request := f.submit(t, ambassadorID, name)
	partner, err := f.approvals.Approve(context.Background(), request.ID, model, admin)
	require.NoError(t, err)
	return partner
}

// failingApprovalRepo rejects every Mutate so approvals fail after the partner
// has been created.
type failingApprovalRepo struct {
	repository.ApprovalRepository
	err error
}

func (r failingApprovalRepo) Mutate(context.Context, string, func(*domain.ApprovalRequest) error) (*domain.ApprovalRequest, error) {
	return nil, r.err
}

var errStoreUnavailable = errors.New("store unavailable")

// pausingApprovalRepo holds the first Mutate until release is closed, leaving
// an approval parked between partner creation and request resolution.
type pausingApprovalRepo struct {
	repository.ApprovalRepository
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newPausingApprovalRepo() *pausingApprovalRepo {
	return &pausingApprovalRepo{
		ApprovalRepository: repository.NewApprovalRepository(),
		entered:            make(chan struct{}),
		release:            make(chan struct{}),
	}
}

func (r *pausingApprovalRepo) Mutate(ctx context.Context, id string, fn func(*domain.ApprovalRequest) error) (*domain.ApprovalRequest, error) {
	r.once.Do(func() {
		close(r.entered)
		<-r.release
	})
	return r.ApprovalRepository.Mutate(ctx, id, fn)
}
