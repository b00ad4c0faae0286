package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orlantquijada/wingz/internal/mylogger"
	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/dto"
	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/model"
	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/query"
	"github.com/orlantquijada/wingz/internal/ride-service/core/myerrors"
	"github.com/orlantquijada/wingz/internal/ride-service/core/ports"
)

// RideQueryPlanner turns a listing request into one fetch plan and resolves
// every ride of a page with a fixed number of storage round-trips: one count,
// one fetch of rides joined with rider and driver (and the distance
// annotation), and one batched fetch of recent events for the whole page.
type RideQueryPlanner struct {
	mylog      mylogger.Logger
	RidesRepo  ports.IRidesRepo
	EventsRepo ports.IRideEventsRepo
	window     time.Duration
	now        func() time.Time
}

func NewRideQueryPlanner(
	log mylogger.Logger,
	ridesRepo ports.IRidesRepo,
	eventsRepo ports.IRideEventsRepo,
	recentWindow time.Duration,
) *RideQueryPlanner {
	return &RideQueryPlanner{
		mylog:      log,
		RidesRepo:  ridesRepo,
		EventsRepo: eventsRepo,
		window:     recentWindow,
		now:        time.Now,
	}
}

// Plan builds the fetch description for req without touching storage.
func (p *RideQueryPlanner) Plan(req dto.RideListQuery) (query.RideQuery, error) {
	if err := req.Validate(); err != nil {
		return query.RideQuery{}, err
	}

	q := query.Rides().WithRiderAndDriver()
	if req.Status != nil {
		q = q.Status(*req.Status)
	}
	if req.RiderEmail != nil {
		q = q.RiderEmail(*req.RiderEmail)
	}
	if req.Ordering != nil {
		if req.Ordering.IsDistance() {
			ref, _ := req.Reference()
			q = q.DistanceFrom(ref)
		}
		q = q.OrderBy(*req.Ordering)
	}

	if err := q.Validate(); err != nil {
		if errors.Is(err, query.ErrDistanceWithoutReference) {
			return query.RideQuery{}, myerrors.FieldError(myerrors.NonFieldErrors, err.Error())
		}
		return query.RideQuery{}, err
	}
	return q, nil
}

func (p *RideQueryPlanner) ListRides(ctx context.Context, req dto.RideListQuery, page, pageSize int) (ports.RidePage, error) {
	log := mylogger.FromContext(ctx, p.mylog).Action("ListRides")

	plan, err := p.Plan(req)
	if err != nil {
		return ports.RidePage{}, err
	}

	res, err := Paginate[model.Ride](ctx, &ridePageSource{planner: p, plan: plan}, PageRequest{Page: page, Size: pageSize})
	if err != nil {
		if !errors.Is(err, myerrors.ErrInvalidPage) {
			log.Error("cannot list rides", err)
		}
		return ports.RidePage{}, err
	}

	log.Debug("rides listed", "count", res.Count, "page", page, "returned", len(res.Items))
	return ports.RidePage{
		Count:    res.Count,
		Page:     res.Page,
		PageSize: res.Size,
		Rides:    res.Items,
	}, nil
}

// GetRide resolves one ride the same way a listing page is resolved.
func (p *RideQueryPlanner) GetRide(ctx context.Context, rideId int64) (model.Ride, error) {
	rides, err := p.RidesRepo.Find(ctx, query.Rides().ID(rideId).WithRiderAndDriver())
	if err != nil {
		return model.Ride{}, fmt.Errorf("find ride %d: %w", rideId, err)
	}
	if len(rides) == 0 {
		return model.Ride{}, myerrors.ErrNotFound
	}
	if err := p.attachRecentEvents(ctx, rides); err != nil {
		return model.Ride{}, err
	}
	return rides[0], nil
}

// attachRecentEvents issues one batched lookup for all rides and joins in memory.
func (p *RideQueryPlanner) attachRecentEvents(ctx context.Context, rides []model.Ride) error {
	if len(rides) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(rides))
	for _, r := range rides {
		ids = append(ids, r.ID)
	}

	since := p.now().Add(-p.window)
	byRide, err := p.EventsRepo.RecentForRides(ctx, ids, since)
	if err != nil {
		return fmt.Errorf("fetch recent events: %w", err)
	}

	for i := range rides {
		events := byRide[rides[i].ID]
		if events == nil {
			events = []model.RideEvent{}
		}
		rides[i].RecentEvents = events
	}
	return nil
}

type ridePageSource struct {
	planner *RideQueryPlanner
	plan    query.RideQuery
}

func (s *ridePageSource) Count(ctx context.Context) (int, error) {
	count, err := s.planner.RidesRepo.Count(ctx, s.plan)
	if err != nil {
		return 0, fmt.Errorf("count rides: %w", err)
	}
	return count, nil
}

func (s *ridePageSource) Fetch(ctx context.Context, limit, offset int) ([]model.Ride, error) {
	rides, err := s.planner.RidesRepo.Find(ctx, s.plan.Slice(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("find rides: %w", err)
	}
	if err := s.planner.attachRecentEvents(ctx, rides); err != nil {
		return nil, err
	}
	return rides, nil
}
