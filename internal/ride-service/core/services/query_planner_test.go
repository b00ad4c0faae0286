package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orlantquijada/wingz/internal/mylogger"
	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/dto"
	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/model"
	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/query"
	"github.com/orlantquijada/wingz/internal/ride-service/core/myerrors"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type plannerFixture struct {
	store   *store
	events  *fakeEventsRepo
	planner *RideQueryPlanner
	rider   model.User
	other   model.User
	driver  model.User
}

func newPlannerFixture(t *testing.T) *plannerFixture {
	t.Helper()
	s := newStore(testNow)
	f := &plannerFixture{store: s, events: &fakeEventsRepo{store: s}}
	f.rider = s.addUser(model.User{Role: model.RoleRider, FirstName: "John", LastName: "Rider", Email: "rider@example.com"})
	f.other = s.addUser(model.User{Role: model.RoleRider, FirstName: "Jane", LastName: "Other", Email: "other@example.com"})
	f.driver = s.addUser(model.User{Role: model.RoleDriver, FirstName: "Dan", LastName: "Driver", Email: "driver@example.com"})
	f.planner = NewRideQueryPlanner(mylogger.Nop(), fakeRidesRepo{s}, f.events, 24*time.Hour)
	f.planner.now = func() time.Time { return testNow }
	return f
}

func (f *plannerFixture) seedRides(n int) {
	for i := 0; i < n; i++ {
		f.store.addRide(model.Ride{
			Status:     model.StatusEnRoute,
			RiderID:    f.rider.ID,
			DriverID:   f.driver.ID,
			Pickup:     model.Coordinates{Latitude: float64(i % 90), Longitude: float64(i % 180)},
			Dropoff:    model.Coordinates{Latitude: 1, Longitude: 1},
			PickupTime: testNow.Add(time.Duration(i) * time.Minute),
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestListRidesRoundTripsDoNotGrowWithPageSize(t *testing.T) {
	for _, n := range []int{1, 50} {
		f := newPlannerFixture(t)
		f.seedRides(n)
		for _, r := range f.store.rides {
			f.store.addEvent(r.ID, model.EventStatusEnRoute, testNow.Add(-time.Hour))
		}

		page, err := f.planner.ListRides(context.Background(), dto.RideListQuery{}, 1, 100)
		require.NoError(t, err)
		assert.Len(t, page.Rides, n)
		assert.Equal(t, 3, f.store.roundTrips(), "n=%d", n)
		require.Len(t, f.events.batches, 1)
		assert.Len(t, f.events.batches[0], n)

		for _, r := range page.Rides {
			assert.Equal(t, "rider@example.com", r.Rider.Email)
			assert.Equal(t, "driver@example.com", r.Driver.Email)
			assert.Len(t, r.RecentEvents, 1)
		}
	}
}

func TestListRidesEmptySkipsFetches(t *testing.T) {
	f := newPlannerFixture(t)

	page, err := f.planner.ListRides(context.Background(), dto.RideListQuery{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Count)
	assert.NotNil(t, page.Rides)
	assert.Empty(t, page.Rides)
	assert.Equal(t, 1, f.store.roundTrips())
	assert.False(t, page.HasNext())
	assert.False(t, page.HasPrevious())
}

func TestRecentEventsWindow(t *testing.T) {
	f := newPlannerFixture(t)
	f.seedRides(2)
	f.store.addEvent(1, model.EventStatusPickup, testNow.Add(-time.Hour))
	f.store.addEvent(1, model.EventStatusEnRoute, testNow.Add(-25*time.Hour))

	page, err := f.planner.ListRides(context.Background(), dto.RideListQuery{}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Rides, 2)

	recent := page.Rides[0].RecentEvents
	require.Len(t, recent, 1)
	assert.Equal(t, model.EventStatusPickup, recent[0].Description)

	assert.NotNil(t, page.Rides[1].RecentEvents)
	assert.Empty(t, page.Rides[1].RecentEvents)
}

func TestListRidesFilters(t *testing.T) {
	f := newPlannerFixture(t)
	f.seedRides(3)
	f.store.rides[1].Status = model.StatusPickup
	f.store.addRide(model.Ride{Status: model.StatusPickup, RiderID: f.other.ID, DriverID: f.driver.ID, PickupTime: testNow})

	tests := []struct {
		name string
		req  dto.RideListQuery
		want []int64
	}{
		{"no filter", dto.RideListQuery{}, []int64{1, 2, 3, 4}},
		{"status", dto.RideListQuery{Status: ptr(model.StatusPickup)}, []int64{2, 4}},
		{"rider email ignores case", dto.RideListQuery{RiderEmail: ptr("RIDER@example.com")}, []int64{1, 2, 3}},
		{"status and email", dto.RideListQuery{Status: ptr(model.StatusPickup), RiderEmail: ptr("other@example.com")}, []int64{4}},
		{"nothing matches", dto.RideListQuery{RiderEmail: ptr("nobody@example.com")}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.planner.ListRides(context.Background(), tt.req, 1, 10)
			require.NoError(t, err)
			ids := []int64{}
			for _, r := range page.Rides {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, len(tt.want), page.Count)
		})
	}
}

func TestListRidesOrderByDistance(t *testing.T) {
	f := newPlannerFixture(t)
	for _, p := range []model.Coordinates{{Latitude: 10, Longitude: 10}, {Latitude: 1, Longitude: 1}, {Latitude: 5, Longitude: 5}} {
		f.store.addRide(model.Ride{Status: model.StatusEnRoute, RiderID: f.rider.ID, DriverID: f.driver.ID, Pickup: p, PickupTime: testNow})
	}

	asc, _ := query.ParseOrdering("distance")
	page, err := f.planner.ListRides(context.Background(), dto.RideListQuery{Ordering: &asc, Latitude: ptr(0.0), Longitude: ptr(0.0)}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Rides, 3)
	assert.Equal(t, []int64{2, 3, 1}, []int64{page.Rides[0].ID, page.Rides[1].ID, page.Rides[2].ID})
	require.NotNil(t, page.Rides[0].Distance)
	assert.InDelta(t, 1.41421356, *page.Rides[0].Distance, 1e-6)

	ref, ok := f.store.lastQuery.Reference()
	assert.True(t, ok)
	assert.Equal(t, model.Coordinates{}, ref)

	desc, _ := query.ParseOrdering("-distance")
	page, err = f.planner.ListRides(context.Background(), dto.RideListQuery{Ordering: &desc, Latitude: ptr(0.0), Longitude: ptr(0.0)}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Rides[0].ID)
}

func TestListRidesPickupTimeOrderingHasNoDistance(t *testing.T) {
	f := newPlannerFixture(t)
	f.seedRides(3)

	o, _ := query.ParseOrdering("-pickup_time")
	page, err := f.planner.ListRides(context.Background(), dto.RideListQuery{Ordering: &o, Latitude: ptr(1.0), Longitude: ptr(1.0)}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Rides[0].ID)
	for _, r := range page.Rides {
		assert.Nil(t, r.Distance)
	}
}

func TestListRidesDistanceWithoutCoordinates(t *testing.T) {
	f := newPlannerFixture(t)
	f.seedRides(2)
	o, _ := query.ParseOrdering("distance")

	for _, req := range []dto.RideListQuery{
		{Ordering: &o},
		{Ordering: &o, Latitude: ptr(1.0)},
		{Ordering: &o, Longitude: ptr(1.0)},
	} {
		_, err := f.planner.ListRides(context.Background(), req, 1, 10)
		require.Error(t, err)
		assert.True(t, myerrors.IsValidation(err))
	}
	assert.Equal(t, 0, f.store.roundTrips())
}

func TestListRidesPagination(t *testing.T) {
	f := newPlannerFixture(t)
	f.seedRides(25)

	page, err := f.planner.ListRides(context.Background(), dto.RideListQuery{}, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, page.Count)
	assert.Len(t, page.Rides, 10)
	assert.Equal(t, int64(11), page.Rides[0].ID)
	assert.True(t, page.HasNext())
	assert.True(t, page.HasPrevious())

	page, err = f.planner.ListRides(context.Background(), dto.RideListQuery{}, 3, 10)
	require.NoError(t, err)
	assert.Len(t, page.Rides, 5)
	assert.False(t, page.HasNext())

	f.store.resetTrips()
	_, err = f.planner.ListRides(context.Background(), dto.RideListQuery{}, 4, 10)
	assert.ErrorIs(t, err, myerrors.ErrInvalidPage)
	assert.Equal(t, 1, f.store.roundTrips())
}

func TestGetRide(t *testing.T) {
	f := newPlannerFixture(t)
	f.seedRides(2)
	f.store.addEvent(2, model.EventStatusPickup, testNow.Add(-time.Minute))

	ride, err := f.planner.GetRide(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), ride.ID)
	assert.Equal(t, "John", ride.Rider.FirstName)
	assert.Len(t, ride.RecentEvents, 1)
	assert.Equal(t, 2, f.store.roundTrips())

	f.store.resetTrips()
	_, err = f.planner.GetRide(context.Background(), 99)
	assert.ErrorIs(t, err, myerrors.ErrNotFound)
	assert.Equal(t, 1, f.store.roundTrips())
}

func TestPlanIsPure(t *testing.T) {
	f := newPlannerFixture(t)
	o, _ := query.ParseOrdering("-distance")

	q, err := f.planner.Plan(dto.RideListQuery{
		Status:     ptr(model.StatusDropoff),
		RiderEmail: ptr("rider@example.com"),
		Ordering:   &o,
		Latitude:   ptr(40.7),
		Longitude:  ptr(-74.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, f.store.roundTrips())

	st, ok := q.StatusFilter()
	assert.True(t, ok)
	assert.Equal(t, model.StatusDropoff, st)
	email, ok := q.RiderEmailFilter()
	assert.True(t, ok)
	assert.Equal(t, "rider@example.com", email)
	ref, ok := q.Reference()
	assert.True(t, ok)
	assert.Equal(t, model.Coordinates{Latitude: 40.7, Longitude: -74.0}, ref)
	assert.True(t, q.IncludesUsers())
	assert.Equal(t, o, q.Ordering())
}
