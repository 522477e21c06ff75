package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/scentwork/partner-console/internal/domain"
)

// PartnerRepository is the partner record store.
type PartnerRepository interface {
	Create(ctx context.Context, partner *domain.Partner) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Partner, error)
	ListByAmbassador(ctx context.Context, ambassadorID string) ([]domain.Partner, error)
	// Mutate applies fn to a copy of the record under the write lock and
	// stores the copy only when fn succeeds.
	Mutate(ctx context.Context, id string, fn func(*domain.Partner) error) (*domain.Partner, error)
}

type partnerRepository struct {
	mu           sync.RWMutex
	rows         map[string]*domain.Partner
	byAmbassador map[string][]string
}

// NewPartnerRepository instantiates an in-memory repository.
func NewPartnerRepository() PartnerRepository {
	return &partnerRepository{
		rows:         make(map[string]*domain.Partner),
		byAmbassador: make(map[string][]string),
	}
}

func (r *partnerRepository) Create(_ context.Context, partner *domain.Partner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rows[partner.ID]; exists {
		return fmt.Errorf("partner %s: %w", partner.ID, domain.ErrDuplicate)
	}
	row := partner.Clone()
	row.ID = strings.Clone(row.ID)
	row.AmbassadorID = strings.Clone(row.AmbassadorID)
	r.rows[row.ID] = row
	r.byAmbassador[row.AmbassadorID] = append(r.byAmbassador[row.AmbassadorID], row.ID)
	return nil
}

func (r *partnerRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return fmt.Errorf("partner %s: %w", id, domain.ErrUnknownPartner)
	}
	delete(r.rows, id)
	ids := r.byAmbassador[row.AmbassadorID]
	for i, candidate := range ids {
		if candidate == id {
			r.byAmbassador[row.AmbassadorID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (r *partnerRepository) GetByID(_ context.Context, id string) (*domain.Partner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("partner %s: %w", id, domain.ErrUnknownPartner)
	}
	return row.Clone(), nil
}

func (r *partnerRepository) ListByAmbassador(_ context.Context, ambassadorID string) ([]domain.Partner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byAmbassador[ambassadorID]
	result := make([]domain.Partner, 0, len(ids))
	for _, id := range ids {
		row, ok := r.rows[id]
		if !ok {
			continue
		}
		result = append(result, *row.Clone())
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *partnerRepository) Mutate(_ context.Context, id string, fn func(*domain.Partner) error) (*domain.Partner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("partner %s: %w", id, domain.ErrUnknownPartner)
	}
	working := row.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	// identity and ownership are fixed at creation
	working.ID = row.ID
	working.AmbassadorID = row.AmbassadorID
	*row = *working
	return working.Clone(), nil
}
