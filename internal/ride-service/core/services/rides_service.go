package services

import (
	"context"
	"time"

	"github.com/orlantquijada/wingz/internal/mylogger"
	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/dto"
	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/model"
	websocketdto "github.com/orlantquijada/wingz/internal/ride-service/core/domain/websocket_dto"
	"github.com/orlantquijada/wingz/internal/ride-service/core/myerrors"
	"github.com/orlantquijada/wingz/internal/ride-service/core/ports"

	messagebrokerdto "github.com/orlantquijada/wingz/internal/ride-service/core/domain/message_broker_dto"
)

const publishTimeout = 5 * time.Second

type RidesService struct {
	mylog          mylogger.Logger
	RidesRepo      ports.IRidesRepo
	EventsRepo     ports.IRideEventsRepo
	Planner        ports.IRideQueryPlanner
	RidesBroker    ports.IRidesBroker
	RidesWebsocket ports.INotifyWebsocket
}

func NewRidesService(
	log mylogger.Logger,
	ridesRepo ports.IRidesRepo,
	eventsRepo ports.IRideEventsRepo,
	planner ports.IRideQueryPlanner,
	ridesBroker ports.IRidesBroker,
	ridesWebsocket ports.INotifyWebsocket,
) *RidesService {
	return &RidesService{
		mylog:          log,
		RidesRepo:      ridesRepo,
		EventsRepo:     eventsRepo,
		Planner:        planner,
		RidesBroker:    ridesBroker,
		RidesWebsocket: ridesWebsocket,
	}
}

func (rs *RidesService) CreateRide(ctx context.Context, req dto.CreateRideRequest) (model.Ride, error) {
	log := mylogger.FromContext(ctx, rs.mylog).Action("CreateRide")

	if err := validateCreateRide(req); err != nil {
		return model.Ride{}, err
	}

	ride := model.Ride{
		Status:     model.StatusEnRoute,
		RiderID:    *req.RiderId,
		DriverID:   *req.DriverId,
		Pickup:     model.Coordinates{Latitude: *req.PickupLatitude, Longitude: *req.PickupLongitude},
		Dropoff:    model.Coordinates{Latitude: *req.DropoffLatitude, Longitude: *req.DropoffLongitude},
		PickupTime: req.PickupTime.UTC(),
	}
	if req.Status != nil {
		ride.Status = model.RideStatus(*req.Status)
	}

	rideId, err := rs.RidesRepo.CreateRide(ctx, ride)
	if err != nil {
		if !myerrors.IsValidation(err) {
			log.Error("cannot create ride", err)
		}
		return model.Ride{}, err
	}
	log.Info("ride created", "ride-id", rideId, "rider-id", ride.RiderID, "driver-id", ride.DriverID)

	return rs.Planner.GetRide(ctx, rideId)
}

// UpdateRide applies the non-nil fields of req. A status change appends the
// matching RideEvent in the same write and is announced after commit.
func (rs *RidesService) UpdateRide(ctx context.Context, rideId int64, req dto.UpdateRideRequest) (model.Ride, error) {
	log := mylogger.FromContext(ctx, rs.mylog).Action("UpdateRide")

	if err := validateUpdateRide(req); err != nil {
		return model.Ride{}, err
	}

	ride, err := rs.Planner.GetRide(ctx, rideId)
	if err != nil {
		return model.Ride{}, err
	}

	var event *model.RideEvent
	if req.Status != nil && model.RideStatus(*req.Status) != ride.Status {
		ride.Status = model.RideStatus(*req.Status)
		description, _ := model.EventForStatus(ride.Status)
		event = &model.RideEvent{RideID: ride.ID, Description: description}
	}
	applyRideUpdate(&ride, req)

	recorded, err := rs.RidesRepo.UpdateRide(ctx, ride, event)
	if err != nil {
		if !myerrors.IsValidation(err) {
			log.Error("cannot update ride", err, "ride-id", rideId)
		}
		return model.Ride{}, err
	}

	if recorded != nil {
		log.Info("ride status changed", "ride-id", ride.ID, "status", ride.Status, "event-id", recorded.ID)
		rs.announce(ctx, log, ride, *recorded)
	}

	return rs.Planner.GetRide(ctx, rideId)
}

func (rs *RidesService) ListEvents(ctx context.Context, rideId int64) ([]model.RideEvent, error) {
	if _, err := rs.Planner.GetRide(ctx, rideId); err != nil {
		return nil, err
	}
	events, err := rs.EventsRepo.ListByRide(ctx, rideId)
	if err != nil {
		mylogger.FromContext(ctx, rs.mylog).Action("ListEvents").Error("cannot list ride events", err, "ride-id", rideId)
		return nil, err
	}
	if events == nil {
		events = []model.RideEvent{}
	}
	return events, nil
}

// announce runs after the write committed, so failures are only logged.
func (rs *RidesService) announce(ctx context.Context, log mylogger.Logger, ride model.Ride, event model.RideEvent) {
	msg := messagebrokerdto.RideStatus{
		RideId:      ride.ID,
		Status:      string(ride.Status),
		EventId:     event.ID,
		Description: string(event.Description),
		RiderId:     ride.RiderID,
		DriverId:    ride.DriverID,
		Timestamp:   event.CreatedAt,
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := rs.RidesBroker.PushMessageToStatus(pubCtx, msg); err != nil {
		log.Error("cannot publish ride status", err, "ride-id", ride.ID)
	}

	wsEvent, err := websocketdto.NewRideEvent(websocketdto.RideEvent{
		RideId:      ride.ID,
		Status:      string(ride.Status),
		Id:          event.ID,
		Description: string(event.Description),
		CreatedAt:   event.CreatedAt,
	})
	if err != nil {
		log.Error("cannot encode ride event", err, "ride-id", ride.ID)
		return
	}
	rs.RidesWebsocket.Broadcast(wsEvent)
}

func applyRideUpdate(ride *model.Ride, req dto.UpdateRideRequest) {
	if req.RiderId != nil {
		ride.RiderID = *req.RiderId
	}
	if req.DriverId != nil {
		ride.DriverID = *req.DriverId
	}
	if req.PickupLatitude != nil {
		ride.Pickup.Latitude = *req.PickupLatitude
	}
	if req.PickupLongitude != nil {
		ride.Pickup.Longitude = *req.PickupLongitude
	}
	if req.DropoffLatitude != nil {
		ride.Dropoff.Latitude = *req.DropoffLatitude
	}
	if req.DropoffLongitude != nil {
		ride.Dropoff.Longitude = *req.DropoffLongitude
	}
	if req.PickupTime != nil {
		ride.PickupTime = req.PickupTime.UTC()
	}
}

func validateCreateRide(req dto.CreateRideRequest) error {
	v := myerrors.NewValidationError()
	validateStatusField(v, req.Status)
	validateUserRefField(v, "rider_id", req.RiderId, true)
	validateUserRefField(v, "driver_id", req.DriverId, true)
	validateLatitudeField(v, "pickup_latitude", req.PickupLatitude, true)
	validateLongitudeField(v, "pickup_longitude", req.PickupLongitude, true)
	validateLatitudeField(v, "dropoff_latitude", req.DropoffLatitude, true)
	validateLongitudeField(v, "dropoff_longitude", req.DropoffLongitude, true)
	if req.PickupTime == nil {
		v.Add("pickup_time", msgRequired)
	}
	return v.OrNil()
}

func validateUpdateRide(req dto.UpdateRideRequest) error {
	v := myerrors.NewValidationError()
	validateStatusField(v, req.Status)
	validateUserRefField(v, "rider_id", req.RiderId, false)
	validateUserRefField(v, "driver_id", req.DriverId, false)
	validateLatitudeField(v, "pickup_latitude", req.PickupLatitude, false)
	validateLongitudeField(v, "pickup_longitude", req.PickupLongitude, false)
	validateLatitudeField(v, "dropoff_latitude", req.DropoffLatitude, false)
	validateLongitudeField(v, "dropoff_longitude", req.DropoffLongitude, false)
	return v.OrNil()
}
