package messagebrokerdto

import "time"

// RideStatus → ride_topic exchange → ride.status.{status}
type RideStatus struct {
	RideId      int64     `json:"ride_id"`
	Status      string    `json:"status"`
	EventId     int64     `json:"event_id"`
	Description string    `json:"description"`
	RiderId     int64     `json:"rider_id"`
	DriverId    int64     `json:"driver_id"`
	Timestamp   time.Time `json:"timestamp"`
}
