package dto

import (
	"time"

	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/model"
	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/query"
	"github.com/orlantquijada/wingz/internal/ride-service/core/myerrors"
)

// RideListQuery is the typed form of the listing query string. Nil means absent.
type RideListQuery struct {
	Status     *model.RideStatus
	RiderEmail *string
	Ordering   *query.Ordering
	Latitude   *float64
	Longitude  *float64
}

// Validate checks the rules spanning several parameters.
func (q RideListQuery) Validate() error {
	if q.Ordering != nil && q.Ordering.IsDistance() && (q.Latitude == nil || q.Longitude == nil) {
		return myerrors.FieldError(myerrors.NonFieldErrors, "latitude and longitude are required when ordering by distance")
	}
	return nil
}

// Reference returns the caller supplied coordinate when both parts are present.
func (q RideListQuery) Reference() (model.Coordinates, bool) {
	if q.Latitude == nil || q.Longitude == nil {
		return model.Coordinates{}, false
	}
	return model.Coordinates{Latitude: *q.Latitude, Longitude: *q.Longitude}, true
}

// API Transfer data

type CreateRideRequest struct {
	Status           *string    `json:"status"`
	RiderId          *int64     `json:"rider_id"`
	DriverId         *int64     `json:"driver_id"`
	PickupLatitude   *float64   `json:"pickup_latitude"`
	PickupLongitude  *float64   `json:"pickup_longitude"`
	DropoffLatitude  *float64   `json:"dropoff_latitude"`
	DropoffLongitude *float64   `json:"dropoff_longitude"`
	PickupTime       *time.Time `json:"pickup_time"`
}

// UpdateRideRequest is a partial update: only non-nil fields change.
type UpdateRideRequest struct {
	Status           *string    `json:"status"`
	RiderId          *int64     `json:"rider_id"`
	DriverId         *int64     `json:"driver_id"`
	PickupLatitude   *float64   `json:"pickup_latitude"`
	PickupLongitude  *float64   `json:"pickup_longitude"`
	DropoffLatitude  *float64   `json:"dropoff_latitude"`
	DropoffLongitude *float64   `json:"dropoff_longitude"`
	PickupTime       *time.Time `json:"pickup_time"`
}

type UserSummaryDto struct {
	Id          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

type RideEventDto struct {
	Id          int64     `json:"id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type RideResponseDto struct {
	Id               int64          `json:"id"`
	Status           string         `json:"status"`
	Rider            UserSummaryDto `json:"rider"`
	Driver           UserSummaryDto `json:"driver"`
	PickupLatitude   float64        `json:"pickup_latitude"`
	PickupLongitude  float64        `json:"pickup_longitude"`
	DropoffLatitude  float64        `json:"dropoff_latitude"`
	DropoffLongitude float64        `json:"dropoff_longitude"`
	PickupTime       time.Time      `json:"pickup_time"`
	Distance         *float64       `json:"distance,omitempty"`
	RecentEvents     []RideEventDto `json:"recent_events"`
}

// PageResponseDto is the paginated envelope. Next and Previous are absolute URLs or null.
type PageResponseDto[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func NewUserSummaryDto(u model.UserSummary) UserSummaryDto {
	return UserSummaryDto{
		Id:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
	}
}

func NewRideEventDto(e model.RideEvent) RideEventDto {
	return RideEventDto{
		Id:          e.ID,
		Description: string(e.Description),
		CreatedAt:   e.CreatedAt,
	}
}

// NewRideEventDtos never returns nil so the field always serializes as a list.
func NewRideEventDtos(events []model.RideEvent) []RideEventDto {
	res := make([]RideEventDto, 0, len(events))
	for _, e := range events {
		res = append(res, NewRideEventDto(e))
	}
	return res
}

func NewRideResponseDto(r model.Ride) RideResponseDto {
	return RideResponseDto{
		Id:               r.ID,
		Status:           string(r.Status),
		Rider:            NewUserSummaryDto(r.Rider),
		Driver:           NewUserSummaryDto(r.Driver),
		PickupLatitude:   r.Pickup.Latitude,
		PickupLongitude:  r.Pickup.Longitude,
		DropoffLatitude:  r.Dropoff.Latitude,
		DropoffLongitude: r.Dropoff.Longitude,
		PickupTime:       r.PickupTime,
		Distance:         r.Distance,
		RecentEvents:     NewRideEventDtos(r.RecentEvents),
	}
}

func NewRideResponseDtos(rides []model.Ride) []RideResponseDto {
	res := make([]RideResponseDto, 0, len(rides))
	for _, r := range rides {
		res = append(res, NewRideResponseDto(r))
	}
	return res
}
