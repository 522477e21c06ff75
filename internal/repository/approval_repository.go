package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/scentwork/partner-console/internal/domain"
)

// ApprovalFilter narrows approval request listings.
type ApprovalFilter struct {
	Statuses     []domain.RequestStatus
	AmbassadorID *string
	// SearchTerm is matched case-insensitively against the candidate name.
	SearchTerm string
}

// ApprovalRepository stores partner approval requests.
type ApprovalRepository interface {
	Create(ctx context.Context, request *domain.ApprovalRequest) error
	GetByID(ctx context.Context, id string) (*domain.ApprovalRequest, error)
	List(ctx context.Context, filter ApprovalFilter) ([]domain.ApprovalRequest, error)
	// Mutate applies fn to a copy of the record under the write lock and
	// stores the copy only when fn succeeds.
	Mutate(ctx context.Context, id string, fn func(*domain.ApprovalRequest) error) (*domain.ApprovalRequest, error)
}

type approvalRepository struct {
	mu    sync.RWMutex
	rows  map[string]*domain.ApprovalRequest
	order []string
}

// NewApprovalRepository instantiates an in-memory repository.
func NewApprovalRepository() ApprovalRepository {
	return &approvalRepository{rows: make(map[string]*domain.ApprovalRequest)}
}

func (r *approvalRepository) Create(_ context.Context, request *domain.ApprovalRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rows[request.ID]; exists {
		return fmt.Errorf("approval request %s: %w", request.ID, domain.ErrDuplicate)
	}
	row := request.Clone()
	row.ID = strings.Clone(row.ID)
	row.AmbassadorID = strings.Clone(row.AmbassadorID)
	r.rows[row.ID] = row
	r.order = append(r.order, row.ID)
	return nil
}

func (r *approvalRepository) GetByID(_ context.Context, id string) (*domain.ApprovalRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("approval request %s: %w", id, domain.ErrUnknownRequest)
	}
	return row.Clone(), nil
}

func (r *approvalRepository) List(_ context.Context, filter ApprovalFilter) ([]domain.ApprovalRequest, error) {
	search := strings.ToLower(strings.TrimSpace(filter.SearchTerm))

	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []domain.ApprovalRequest{}
	for _, id := range r.order {
		row, ok := r.rows[id]
		if !ok {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, row.Status) {
			continue
		}
		if filter.AmbassadorID != nil && row.AmbassadorID != *filter.AmbassadorID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(row.Candidate.Name), search) {
			continue
		}
		result = append(result, *row.Clone())
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SubmittedAt.Before(result[j].SubmittedAt)
	})
	return result, nil
}

func (r *approvalRepository) Mutate(_ context.Context, id string, fn func(*domain.ApprovalRequest) error) (*domain.ApprovalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("approval request %s: %w", id, domain.ErrUnknownRequest)
	}
	working := row.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	working.ID = row.ID
	working.AmbassadorID = row.AmbassadorID
	*row = *working
	return working.Clone(), nil
}

func containsStatus(statuses []domain.RequestStatus, status domain.RequestStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}
