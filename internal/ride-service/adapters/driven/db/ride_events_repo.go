package db

import (
	"context"
	"time"

	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/model"

	"github.com/jackc/pgx/v5"
)

const (
	recentEventsQuery = `SELECT event_id, ride_id, description, created_at
		FROM ride_events
		WHERE ride_id = ANY($1) AND created_at >= $2
		ORDER BY ride_id, created_at DESC, event_id DESC`

	rideEventsQuery = `SELECT event_id, ride_id, description, created_at
		FROM ride_events
		WHERE ride_id = $1
		ORDER BY created_at DESC, event_id DESC`
)

type RideEventsRepo struct {
	db *DB
}

func NewRideEventsRepo(db *DB) *RideEventsRepo {
	return &RideEventsRepo{
		db: db,
	}
}

// RecentForRides fetches the events of all rideIds in one statement.
func (er *RideEventsRepo) RecentForRides(ctx context.Context, rideIds []int64, since time.Time) (map[int64][]model.RideEvent, error) {
	res := make(map[int64][]model.RideEvent, len(rideIds))
	if len(rideIds) == 0 {
		return res, nil
	}

	events, err := er.collect(ctx, recentEventsQuery, rideIds, since)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		res[e.RideID] = append(res[e.RideID], e)
	}
	return res, nil
}

func (er *RideEventsRepo) ListByRide(ctx context.Context, rideId int64) ([]model.RideEvent, error) {
	return er.collect(ctx, rideEventsQuery, rideId)
}

func (er *RideEventsRepo) collect(ctx context.Context, q string, args ...any) ([]model.RideEvent, error) {
	rows, err := er.db.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, translateError(err)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.RideEvent, error) {
		var e model.RideEvent
		err := row.Scan(&e.ID, &e.RideID, &e.Description, &e.CreatedAt)
		return e, err
	})
	if err != nil {
		return nil, translateError(err)
	}
	return events, nil
}
