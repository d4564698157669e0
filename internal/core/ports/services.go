package ports

import (
	"context"

	"github.com/samirrijal/mygeo/internal/core/domain"
)

// LocationSource is the platform location service.
type LocationSource interface {
	// RequestPermission prompts for foreground location access once.
	RequestPermission(ctx context.Context) (domain.Permission, error)
	// Watch starts a continuous position subscription.
	Watch(ctx context.Context, opts domain.WatchOptions) (Subscription, error)
}

// Subscription is a live position stream.
type Subscription interface {
	// Updates yields samples in arrival order and is closed by Remove.
	Updates() <-chan domain.PositionSample
	// Remove releases the subscription. It is safe to call more than once.
	Remove()
}

// EventPublisher publishes map updates to a message broker.
type EventPublisher interface {
	PublishTrackerState(ctx context.Context, state *domain.TrackerState) error
	PublishPoint(ctx context.Context, p *domain.Point) error
}

// CacheService provides key/value caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
