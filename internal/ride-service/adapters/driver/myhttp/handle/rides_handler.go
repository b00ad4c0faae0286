package handle

import (
	"net/http"

	"github.com/orlantquijada/wingz/internal/mylogger"
	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/dto"
	"github.com/orlantquijada/wingz/internal/ride-service/core/ports"
)

type RidesHandler struct {
	planner      ports.IRideQueryPlanner
	ridesService ports.IRidesService
	log          mylogger.Logger
	pageSize     int
	maxPageSize  int
}

func NewRidesHandler(planner ports.IRideQueryPlanner, rs ports.IRidesService, log mylogger.Logger, pageSize, maxPageSize int) *RidesHandler {
	return &RidesHandler{
		planner:      planner,
		ridesService: rs,
		log:          log,
		pageSize:     pageSize,
		maxPageSize:  maxPageSize,
	}
}

func (rh *RidesHandler) ListRides() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := mylogger.FromContext(r.Context(), rh.log).Action("ListRides")

		values := r.URL.Query()
		req, err := parseRideListQuery(values)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}
		page, size, err := parsePage(values, rh.pageSize, rh.maxPageSize)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}

		res, err := rh.planner.ListRides(r.Context(), req, page, size)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}

		body := dto.PageResponseDto[dto.RideResponseDto]{
			Count:   res.Count,
			Results: dto.NewRideResponseDtos(res.Rides),
		}
		if res.HasNext() {
			body.Next = pageURL(r, res.Page+1)
		}
		if res.HasPrevious() {
			body.Previous = pageURL(r, res.Page-1)
		}
		jsonResponse(w, http.StatusOK, body)
	}
}

func (rh *RidesHandler) GetRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := mylogger.FromContext(r.Context(), rh.log).Action("GetRide")

		rideId, err := parseID(r, "ride_id")
		if err != nil {
			writeServiceError(w, log, err)
			return
		}

		ride, err := rh.planner.GetRide(r.Context(), rideId)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.NewRideResponseDto(ride))
	}
}

func (rh *RidesHandler) CreateRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := mylogger.FromContext(r.Context(), rh.log).Action("CreateRide")

		req := dto.CreateRideRequest{}
		if err := decodeJSON(r, &req); err != nil {
			writeServiceError(w, log, err)
			return
		}

		ride, err := rh.ridesService.CreateRide(r.Context(), req)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}
		jsonResponse(w, http.StatusCreated, dto.NewRideResponseDto(ride))
	}
}

func (rh *RidesHandler) UpdateRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := mylogger.FromContext(r.Context(), rh.log).Action("UpdateRide")

		rideId, err := parseID(r, "ride_id")
		if err != nil {
			writeServiceError(w, log, err)
			return
		}

		req := dto.UpdateRideRequest{}
		if err := decodeJSON(r, &req); err != nil {
			writeServiceError(w, log, err)
			return
		}

		ride, err := rh.ridesService.UpdateRide(r.Context(), rideId, req)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.NewRideResponseDto(ride))
	}
}

func (rh *RidesHandler) ListEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := mylogger.FromContext(r.Context(), rh.log).Action("ListEvents")

		rideId, err := parseID(r, "ride_id")
		if err != nil {
			writeServiceError(w, log, err)
			return
		}

		events, err := rh.ridesService.ListEvents(r.Context(), rideId)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.NewRideEventDtos(events))
	}
}
