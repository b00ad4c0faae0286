package db

import (
	"context"
	"fmt"

	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/model"
	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/query"
	"github.com/orlantquijada/wingz/internal/ride-service/core/myerrors"

	"github.com/jackc/pgx/v5"
)

type RidesRepo struct {
	db *DB
}

func NewRidesRepo(db *DB) *RidesRepo {
	return &RidesRepo{
		db: db,
	}
}

func (rr *RidesRepo) Count(ctx context.Context, q query.RideQuery) (int, error) {
	cq := compileRideCount(q)

	var count int
	if err := rr.db.pool.QueryRow(ctx, cq.SQL, cq.Args...).Scan(&count); err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (rr *RidesRepo) Find(ctx context.Context, q query.RideQuery) ([]model.Ride, error) {
	cq, err := compileRideSelect(q)
	if err != nil {
		return nil, err
	}

	rows, err := rr.db.pool.Query(ctx, cq.SQL, cq.Args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	rides := []model.Ride{}
	for rows.Next() {
		ride, err := scanRide(rows, cq)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return rides, nil
}

func scanRide(row pgx.Row, cq compiledQuery) (model.Ride, error) {
	var r model.Ride
	dest := []any{
		&r.ID, &r.Status, &r.RiderID, &r.DriverID,
		&r.Pickup.Latitude, &r.Pickup.Longitude,
		&r.Dropoff.Latitude, &r.Dropoff.Longitude,
		&r.PickupTime,
	}
	if cq.WithUsers {
		dest = append(dest,
			&r.Rider.ID, &r.Rider.FirstName, &r.Rider.LastName, &r.Rider.Email, &r.Rider.PhoneNumber,
			&r.Driver.ID, &r.Driver.FirstName, &r.Driver.LastName, &r.Driver.Email, &r.Driver.PhoneNumber,
		)
	}
	var distance float64
	if cq.WithDistance {
		dest = append(dest, &distance)
	}

	if err := row.Scan(dest...); err != nil {
		return model.Ride{}, fmt.Errorf("scan ride: %w", err)
	}
	if cq.WithDistance {
		r.Distance = &distance
	}
	return r, nil
}

func (rr *RidesRepo) CreateRide(ctx context.Context, ride model.Ride) (int64, error) {
	q := `INSERT INTO rides(
			status,
			rider_id,
			driver_id,
			pickup_latitude,
			pickup_longitude,
			dropoff_latitude,
			dropoff_longitude,
			pickup_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING ride_id`

	var rideId int64
	err := rr.db.pool.QueryRow(ctx, q,
		string(ride.Status),
		ride.RiderID,
		ride.DriverID,
		ride.Pickup.Latitude,
		ride.Pickup.Longitude,
		ride.Dropoff.Latitude,
		ride.Dropoff.Longitude,
		ride.PickupTime,
	).Scan(&rideId)
	if err != nil {
		return 0, translateError(err)
	}
	return rideId, nil
}

func (rr *RidesRepo) UpdateRide(ctx context.Context, ride model.Ride, event *model.RideEvent) (*model.RideEvent, error) {
	tx, err := rr.db.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, translateError(err)
	}
	defer tx.Rollback(ctx) // Safe rollback if not committed

	q := `UPDATE
			rides
		SET
			status = $1,
			rider_id = $2,
			driver_id = $3,
			pickup_latitude = $4,
			pickup_longitude = $5,
			dropoff_latitude = $6,
			dropoff_longitude = $7,
			pickup_time = $8
		WHERE ride_id = $9`

	tag, err := tx.Exec(ctx, q,
		string(ride.Status),
		ride.RiderID,
		ride.DriverID,
		ride.Pickup.Latitude,
		ride.Pickup.Longitude,
		ride.Dropoff.Latitude,
		ride.Dropoff.Longitude,
		ride.PickupTime,
		ride.ID,
	)
	if err != nil {
		return nil, translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, myerrors.ErrNotFound
	}

	var recorded *model.RideEvent
	if event != nil {
		e := *event
		e.RideID = ride.ID
		q = `INSERT INTO ride_events(ride_id, description) VALUES ($1, $2) RETURNING event_id, created_at`
		if err := tx.QueryRow(ctx, q, e.RideID, string(e.Description)).Scan(&e.ID, &e.CreatedAt); err != nil {
			return nil, translateError(err)
		}
		recorded = &e
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, translateError(err)
	}
	return recorded, nil
}
