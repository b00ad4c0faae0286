package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/model"
	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/query"
	"github.com/orlantquijada/wingz/internal/ride-service/core/myerrors"

	messagebrokerdto "github.com/orlantquijada/wingz/internal/ride-service/core/domain/message_broker_dto"
	websocketdto "github.com/orlantquijada/wingz/internal/ride-service/core/domain/websocket_dto"
)

// store is an in-memory backend that counts every call as one round-trip.
type store struct {
	mu        sync.Mutex
	rides     []model.Ride
	events    []model.RideEvent
	users     []model.User
	trips     int
	lastQuery query.RideQuery
	now       time.Time
	failWith  error
}

func newStore(now time.Time) *store {
	return &store{now: now}
}

func (s *store) roundTrips() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trips
}

func (s *store) resetTrips() {
	s.mu.Lock()
	s.trips = 0
	s.mu.Unlock()
}

func (s *store) addUser(u model.User) model.User {
	u.ID = int64(len(s.users) + 1)
	s.users = append(s.users, u)
	return u
}

func (s *store) addRide(r model.Ride) model.Ride {
	r.ID = int64(len(s.rides) + 1)
	s.rides = append(s.rides, r)
	return r
}

func (s *store) addEvent(rideId int64, d model.RideEventType, createdAt time.Time) {
	s.events = append(s.events, model.RideEvent{
		ID:          int64(len(s.events) + 1),
		RideID:      rideId,
		Description: d,
		CreatedAt:   createdAt,
	})
}

func (s *store) user(id int64) (model.User, bool) {
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}

func (s *store) matches(q query.RideQuery) []model.Ride {
	var out []model.Ride
	for _, r := range s.rides {
		if id, ok := q.IDFilter(); ok && r.ID != id {
			continue
		}
		if st, ok := q.StatusFilter(); ok && r.Status != st {
			continue
		}
		if email, ok := q.RiderEmailFilter(); ok {
			u, _ := s.user(r.RiderID)
			if !strings.EqualFold(u.Email, email) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// rides repo

type fakeRidesRepo struct{ *store }

func (f fakeRidesRepo) Count(ctx context.Context, q query.RideQuery) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trips++
	if f.failWith != nil {
		return 0, f.failWith
	}
	return len(f.matches(q)), nil
}

func (f fakeRidesRepo) Find(ctx context.Context, q query.RideQuery) ([]model.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trips++
	f.lastQuery = q
	if f.failWith != nil {
		return nil, f.failWith
	}

	rides := f.matches(q)
	ref, hasRef := q.Reference()
	for i := range rides {
		if q.IncludesUsers() {
			rider, _ := f.user(rides[i].RiderID)
			driver, _ := f.user(rides[i].DriverID)
			rides[i].Rider = rider.Summary()
			rides[i].Driver = driver.Summary()
		}
		if hasRef {
			d := model.Distance(ref, rides[i].Pickup)
			rides[i].Distance = &d
		}
	}

	o := q.Ordering()
	sort.SliceStable(rides, func(i, j int) bool {
		var less, equal bool
		switch o.Field {
		case query.OrderPickupTime:
			less, equal = rides[i].PickupTime.Before(rides[j].PickupTime), rides[i].PickupTime.Equal(rides[j].PickupTime)
		case query.OrderDistance:
			less, equal = *rides[i].Distance < *rides[j].Distance, *rides[i].Distance == *rides[j].Distance
		default:
			return rides[i].ID < rides[j].ID
		}
		if equal {
			return rides[i].ID < rides[j].ID
		}
		if o.Desc {
			return !less
		}
		return less
	})

	limit, offset := q.Window()
	if offset > len(rides) {
		offset = len(rides)
	}
	rides = rides[offset:]
	if limit > 0 && limit < len(rides) {
		rides = rides[:limit]
	}
	return rides, nil
}

func (f fakeRidesRepo) CreateRide(ctx context.Context, ride model.Ride) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trips++
	if _, ok := f.user(ride.RiderID); !ok {
		return 0, myerrors.FieldError("rider_id", "object does not exist")
	}
	return f.addRide(ride).ID, nil
}

func (f fakeRidesRepo) UpdateRide(ctx context.Context, ride model.Ride, event *model.RideEvent) (*model.RideEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trips++
	for i := range f.rides {
		if f.rides[i].ID != ride.ID {
			continue
		}
		ride.Rider, ride.Driver, ride.RecentEvents, ride.Distance = model.UserSummary{}, model.UserSummary{}, nil, nil
		f.rides[i] = ride
		if event == nil {
			return nil, nil
		}
		f.addEvent(ride.ID, event.Description, f.now)
		recorded := f.events[len(f.events)-1]
		return &recorded, nil
	}
	return nil, myerrors.ErrNotFound
}

// events repo

type fakeEventsRepo struct {
	*store
	batches [][]int64
}

func (f *fakeEventsRepo) RecentForRides(ctx context.Context, rideIds []int64, since time.Time) (map[int64][]model.RideEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trips++
	f.batches = append(f.batches, append([]int64(nil), rideIds...))

	wanted := map[int64]bool{}
	for _, id := range rideIds {
		wanted[id] = true
	}
	out := map[int64][]model.RideEvent{}
	for _, e := range f.events {
		if wanted[e.RideID] && !e.CreatedAt.Before(since) {
			out[e.RideID] = append(out[e.RideID], e)
		}
	}
	for id := range out {
		sort.Slice(out[id], func(i, j int) bool { return out[id][i].CreatedAt.After(out[id][j].CreatedAt) })
	}
	return out, nil
}

func (f *fakeEventsRepo) ListByRide(ctx context.Context, rideId int64) ([]model.RideEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trips++
	var out []model.RideEvent
	for _, e := range f.events {
		if e.RideID == rideId {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// users repo

type fakeUsersRepo struct{ *store }

func (f fakeUsersRepo) Create(ctx context.Context, user model.User) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, user.Email) {
			return model.User{}, myerrors.ErrEmailRegistered
		}
	}
	user.CreatedAt = f.now
	return f.addUser(user), nil
}

func (f fakeUsersRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, myerrors.ErrNotFound
}

// notifications

type fakeBroker struct {
	mu   sync.Mutex
	msgs []messagebrokerdto.RideStatus
	err  error
}

func (b *fakeBroker) Close() error { return nil }

func (b *fakeBroker) PushMessageToStatus(ctx context.Context, msg messagebrokerdto.RideStatus) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.msgs = append(b.msgs, msg)
	return nil
}

type fakeFeed struct {
	mu     sync.Mutex
	events []websocketdto.Event
}

func (f *fakeFeed) Broadcast(msg websocketdto.Event) {
	f.mu.Lock()
	f.events = append(f.events, msg)
	f.mu.Unlock()
}

type fakeTokens struct{}

func (fakeTokens) Issue(userID int64, email, role string) (string, time.Time, error) {
	if email == "" {
		return "", time.Time{}, errors.New("no email")
	}
	return "token-for-" + email, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), nil
}
