package ports

import (
	"context"

	"github.com/samirrijal/mygeo/internal/core/domain"
)

// PointRepository holds the points of interest. Append is the only mutation.
type PointRepository interface {
	Append(ctx context.Context, p *domain.Point) error
	List(ctx context.Context) ([]domain.Point, error)
	Count(ctx context.Context) (int, error)
}
