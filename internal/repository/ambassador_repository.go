package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/scentwork/partner-console/internal/domain"
)

// AmbassadorRepository holds ambassador records.
type AmbassadorRepository interface {
	Create(ctx context.Context, ambassador *domain.Ambassador) error
	GetByID(ctx context.Context, id string) (*domain.Ambassador, error)
	List(ctx context.Context) ([]domain.Ambassador, error)
	// Mutate applies fn to a copy of the record under the write lock and
	// stores the copy only when fn succeeds.
	Mutate(ctx context.Context, id string, fn func(*domain.Ambassador) error) (*domain.Ambassador, error)
}

type ambassadorRepository struct {
	mu   sync.RWMutex
	rows map[string]*domain.Ambassador
}

// NewAmbassadorRepository instantiates an in-memory repository.
func NewAmbassadorRepository() AmbassadorRepository {
	return &ambassadorRepository{rows: make(map[string]*domain.Ambassador)}
}

func (r *ambassadorRepository) Create(_ context.Context, ambassador *domain.Ambassador) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rows[ambassador.ID]; exists {
		return fmt.Errorf("ambassador %s: %w", ambassador.ID, domain.ErrDuplicate)
	}
	row := ambassador.Clone()
	row.ID = strings.Clone(row.ID)
	r.rows[row.ID] = row
	return nil
}

func (r *ambassadorRepository) GetByID(_ context.Context, id string) (*domain.Ambassador, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("ambassador %s: %w", id, domain.ErrUnknownAmbassador)
	}
	return row.Clone(), nil
}

func (r *ambassadorRepository) List(_ context.Context) ([]domain.Ambassador, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Ambassador, 0, len(r.rows))
	for _, row := range r.rows {
		result = append(result, *row.Clone())
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *ambassadorRepository) Mutate(_ context.Context, id string, fn func(*domain.Ambassador) error) (*domain.Ambassador, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("ambassador %s: %w", id, domain.ErrUnknownAmbassador)
	}
	working := row.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	working.ID = row.ID
	*row = *working
	return working.Clone(), nil
}
