package ports

import (
	"context"
	"time"

	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/model"
	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/query"
)

type IDB interface {
	IsAlive(ctx context.Context) error
	Close() error
}

type IRidesRepo interface {
	// Count returns the number of rides matching the filters of q. Ordering and window are ignored.
	Count(ctx context.Context, q query.RideQuery) (int, error)
	// Find materializes q in a single round-trip.
	Find(ctx context.Context, q query.RideQuery) ([]model.Ride, error)
	CreateRide(ctx context.Context, ride model.Ride) (int64, error)
	// UpdateRide stores ride and, when event is not nil, appends it in the same transaction.
	UpdateRide(ctx context.Context, ride model.Ride, event *model.RideEvent) (*model.RideEvent, error)
}

type IRideEventsRepo interface {
	// RecentForRides returns, for every id in rideIds, its events created at or after since, newest first.
	RecentForRides(ctx context.Context, rideIds []int64, since time.Time) (map[int64][]model.RideEvent, error)
	ListByRide(ctx context.Context, rideId int64) ([]model.RideEvent, error)
}

type IUsersRepo interface {
	Create(ctx context.Context, user model.User) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
}
