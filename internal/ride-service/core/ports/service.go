package ports

import (
	"context"

	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/dto"
	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/model"
)

// RidePage is one page of fully resolved rides plus the total match count.
type RidePage struct {
	Count    int
	Page     int
	PageSize int
	Rides    []model.Ride
}

func (p RidePage) HasNext() bool {
	return p.Page*p.PageSize < p.Count
}

func (p RidePage) HasPrevious() bool {
	return p.Page > 1
}

type IRideQueryPlanner interface {
	ListRides(ctx context.Context, req dto.RideListQuery, page, pageSize int) (RidePage, error)
	GetRide(ctx context.Context, rideId int64) (model.Ride, error)
}

type IRidesService interface {
	CreateRide(ctx context.Context, req dto.CreateRideRequest) (model.Ride, error)
	UpdateRide(ctx context.Context, rideId int64, req dto.UpdateRideRequest) (model.Ride, error)
	ListEvents(ctx context.Context, rideId int64) ([]model.RideEvent, error)
}

type IUserService interface {
	Register(ctx context.Context, req dto.UserRegistrationRequest) (model.User, error)
	Login(ctx context.Context, req dto.UserAuthRequest) (dto.TokenResponseDto, error)
}
