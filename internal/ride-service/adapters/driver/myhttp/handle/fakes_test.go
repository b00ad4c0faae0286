package handle

import (
	"context"
	"errors"

	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/dto"
	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/model"
	"github.com/orlantquijada/wingz/internal/ride-service/core/myerrors"
	"github.com/orlantquijada/wingz/internal/ride-service/core/ports"
)

type fakePlanner struct {
	rides    []model.Ride
	lastReq  dto.RideListQuery
	lastSize int
	err      error
}

func (f *fakePlanner) ListRides(ctx context.Context, req dto.RideListQuery, page, pageSize int) (ports.RidePage, error) {
	f.lastReq = req
	f.lastSize = pageSize
	if f.err != nil {
		return ports.RidePage{}, f.err
	}

	start := (page - 1) * pageSize
	if start >= len(f.rides) && page > 1 {
		return ports.RidePage{}, myerrors.ErrInvalidPage
	}
	end := min(start+pageSize, len(f.rides))
	return ports.RidePage{
		Count:    len(f.rides),
		Page:     page,
		PageSize: pageSize,
		Rides:    f.rides[min(start, end):end],
	}, nil
}

func (f *fakePlanner) GetRide(ctx context.Context, rideId int64) (model.Ride, error) {
	for _, r := range f.rides {
		if r.ID == rideId {
			return r, nil
		}
	}
	return model.Ride{}, myerrors.ErrNotFound
}

type fakeRidesService struct {
	created model.Ride
	updated model.Ride
	events  []model.RideEvent
	err     error
}

func (f *fakeRidesService) CreateRide(ctx context.Context, req dto.CreateRideRequest) (model.Ride, error) {
	return f.created, f.err
}

func (f *fakeRidesService) UpdateRide(ctx context.Context, rideId int64, req dto.UpdateRideRequest) (model.Ride, error) {
	return f.updated, f.err
}

func (f *fakeRidesService) ListEvents(ctx context.Context, rideId int64) ([]model.RideEvent, error) {
	return f.events, f.err
}

type fakeUserService struct {
	user  model.User
	token dto.TokenResponseDto
	err   error
}

func (f *fakeUserService) Register(ctx context.Context, req dto.UserRegistrationRequest) (model.User, error) {
	return f.user, f.err
}

func (f *fakeUserService) Login(ctx context.Context, req dto.UserAuthRequest) (dto.TokenResponseDto, error) {
	return f.token, f.err
}

type fakeDB struct {
	err error
}

func (f fakeDB) IsAlive(ctx context.Context) error { return f.err }

func (f fakeDB) Close() error { return nil }

var errBoom = errors.New("connection reset by peer on 10.0.0.5")
