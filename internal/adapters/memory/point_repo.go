// Package memory holds process-lifetime repositories.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/samirrijal/mygeo/internal/core/domain"
)

// PointRepo implements ports.PointRepository as an append-only slice.
type PointRepo struct {
	mu     sync.RWMutex
	points []domain.Point
	ids    map[string]struct{}
}

// NewPointRepo creates an empty PointRepo.
func NewPointRepo() *PointRepo {
	return &PointRepo{ids: make(map[string]struct{})}
}

// Append adds a point at the end of the list. Ids must be unique.
func (r *PointRepo) Append(ctx context.Context, p *domain.Point) error {
	if p == nil {
		return fmt.Errorf("append: nil point")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.ids[p.ID]; dup {
		return fmt.Errorf("append: duplicate point id %s", p.ID)
	}
	r.ids[p.ID] = struct{}{}
	r.points = append(r.points, *p)
	return nil
}

// List returns a copy of the points in insertion order.
func (r *PointRepo) List(ctx context.Context) ([]domain.Point, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Point, len(r.points))
	copy(out, r.points)
	return out, nil
}

// Count returns the number of stored points.
func (r *PointRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.points), nil
}
