package model

import "time"

type RideEventType string

const (
	EventStatusEnRoute RideEventType = "Status changed to en-route"
	EventStatusPickup  RideEventType = "Status changed to pickup"
	EventStatusDropoff RideEventType = "Status changed to dropoff"
)

var statusEvents = map[RideStatus]RideEventType{
	StatusEnRoute: EventStatusEnRoute,
	StatusPickup:  EventStatusPickup,
	StatusDropoff: EventStatusDropoff,
}

// EventForStatus returns the event label recorded when a ride moves into status.
func EventForStatus(status RideStatus) (RideEventType, bool) {
	e, ok := statusEvents[status]
	return e, ok
}

// RideEvent is append-only. CreatedAt is assigned by the database.
type RideEvent struct {
	ID          int64
	RideID      int64
	Description RideEventType
	CreatedAt   time.Time
}
