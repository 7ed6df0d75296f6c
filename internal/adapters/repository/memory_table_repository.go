package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

var _ domain.TableRepository = (*InMemoryTableRepository)(nil)

// InMemoryTableRepository serves a table held in memory. Every Set bumps the version.
type InMemoryTableRepository struct {
	table    *domain.Table
	revision int
	err      error

	mu sync.RWMutex
}

func NewInMemoryTableRepository(table *domain.Table) *InMemoryTableRepository {
	return &InMemoryTableRepository{table: table, revision: 1}
}

func (r *InMemoryTableRepository) Set(table *domain.Table) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.table = table
	r.revision++
}

// Fail makes every subsequent call return err, until cleared with Fail(nil).
func (r *InMemoryTableRepository) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.err = err
}

func (r *InMemoryTableRepository) Version(ctx context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.err != nil {
		return "", r.err
	}
	return fmt.Sprintf("memory:%d", r.revision), nil
}

func (r *InMemoryTableRepository) Load(ctx context.Context) (*domain.Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.err != nil {
		return nil, r.err
	}
	if r.table == nil {
		return nil, fmt.Errorf("%w: no table loaded", domain.ErrSourceUnavailable)
	}
	return r.table, nil
}
