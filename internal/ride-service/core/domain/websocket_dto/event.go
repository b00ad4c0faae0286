package websocketdto

import (
	"encoding/json"
	"time"
)

const TypeRideEvent = "ride_event"

type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// RideEvent is pushed to admins subscribed to the live feed.
type RideEvent struct {
	RideId      int64     `json:"ride_id"`
	Status      string    `json:"status"`
	Id          int64     `json:"id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewRideEvent(e RideEvent) (Event, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: TypeRideEvent, Data: data}, nil
}
