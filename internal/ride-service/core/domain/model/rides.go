package model

import "time"

type RideStatus string

const (
	StatusEnRoute RideStatus = "en-route"
	StatusPickup  RideStatus = "pickup"
	StatusDropoff RideStatus = "dropoff"
)

var AllowedRideStatuses = map[RideStatus]bool{
	StatusEnRoute: true,
	StatusPickup:  true,
	StatusDropoff: true,
}

func (s RideStatus) Valid() bool {
	return AllowedRideStatuses[s]
}

// Coordinates is a raw latitude/longitude pair.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

func (c Coordinates) Valid() bool {
	return ValidLatitude(c.Latitude) && ValidLongitude(c.Longitude)
}

func ValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func ValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}

type Ride struct {
	ID         int64
	Status     RideStatus
	RiderID    int64
	DriverID   int64
	Rider      UserSummary
	Driver     UserSummary
	Pickup     Coordinates
	Dropoff    Coordinates
	PickupTime time.Time

	// Distance is set only when the fetch was annotated with a reference point.
	Distance *float64

	RecentEvents []RideEvent
}
