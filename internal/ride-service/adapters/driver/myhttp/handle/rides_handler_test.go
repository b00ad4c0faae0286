package handle

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/orlantquijada/wingz/internal/mylogger"
	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/model"
	"github.com/orlantquijada/wingz/internal/ride-service/core/myerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageBody struct {
	Count    int               `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
	Results  []json.RawMessage `json:"results"`
}

func seedRides(n int) []model.Ride {
	rides := make([]model.Ride, 0, n)
	for i := 1; i <= n; i++ {
		rides = append(rides, model.Ride{
			ID:         int64(i),
			Status:     model.StatusEnRoute,
			Rider:      model.UserSummary{ID: 1, Email: "rider@example.com"},
			Driver:     model.UserSummary{ID: 2, Email: "driver@example.com"},
			PickupTime: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		})
	}
	return rides
}

func newRidesHandler(planner *fakePlanner, rs *fakeRidesService) *RidesHandler {
	return NewRidesHandler(planner, rs, mylogger.Nop(), 2, 5)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestListRidesEnvelope(t *testing.T) {
	planner := &fakePlanner{rides: seedRides(5)}
	h := newRidesHandler(planner, &fakeRidesService{})

	rec := httptest.NewRecorder()
	h.ListRides()(rec, httptest.NewRequest("GET", "/rides?page=2&status=en-route", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody[pageBody](t, rec)
	assert.Equal(t, 5, body.Count)
	assert.Len(t, body.Results, 2)
	require.NotNil(t, body.Next)
	assert.Equal(t, "http://example.com/rides?page=3&status=en-route", *body.Next)
	require.NotNil(t, body.Previous)
	assert.Equal(t, "http://example.com/rides?status=en-route", *body.Previous)
}

func TestListRidesEmptyResultsIsAList(t *testing.T) {
	h := newRidesHandler(&fakePlanner{}, &fakeRidesService{})

	rec := httptest.NewRecorder()
	h.ListRides()(rec, httptest.NewRequest("GET", "/rides", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":0,"next":null,"previous":null,"results":[]}`, rec.Body.String())
}

func TestListRidesRideShape(t *testing.T) {
	h := newRidesHandler(&fakePlanner{rides: seedRides(1)}, &fakeRidesService{})

	rec := httptest.NewRecorder()
	h.ListRides()(rec, httptest.NewRequest("GET", "/rides", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[pageBody](t, rec)
	require.Len(t, body.Results, 1)

	var ride map[string]any
	require.NoError(t, json.Unmarshal(body.Results[0], &ride))
	assert.Equal(t, float64(1), ride["id"])
	assert.Equal(t, "en-route", ride["status"])
	assert.Contains(t, ride, "rider")
	assert.Contains(t, ride, "driver")
	assert.Equal(t, []any{}, ride["recent_events"])
	assert.NotContains(t, ride, "distance")
}

func TestListRidesPageSizeIsCapped(t *testing.T) {
	planner := &fakePlanner{rides: seedRides(3)}
	h := newRidesHandler(planner, &fakeRidesService{})

	rec := httptest.NewRecorder()
	h.ListRides()(rec, httptest.NewRequest("GET", "/rides?page_size=500", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, planner.lastSize)
}

func TestListRidesErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		code   int
	}{
		{"distance without coordinates", "/rides?ordering=distance", nil, http.StatusBadRequest},
		{"bad status", "/rides?status=flying", nil, http.StatusBadRequest},
		{"bad page", "/rides?page=abc", nil, http.StatusNotFound},
		{"page out of range", "/rides?page=9", nil, http.StatusNotFound},
		{"storage down", "/rides", myerrors.ErrDBConnClosed, http.StatusServiceUnavailable},
		{"unexpected", "/rides", errBoom, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newRidesHandler(&fakePlanner{rides: seedRides(3), err: tt.err}, &fakeRidesService{})

			rec := httptest.NewRecorder()
			h.ListRides()(rec, httptest.NewRequest("GET", tt.target, nil))

			assert.Equal(t, tt.code, rec.Code)
			body := decodeBody[map[string]any](t, rec)
			assert.Equal(t, float64(tt.code), body["code"])
			assert.NotContains(t, body["error"], "10.0.0.5")
		})
	}
}

func TestListRidesValidationBody(t *testing.T) {
	h := newRidesHandler(&fakePlanner{}, &fakeRidesService{})

	rec := httptest.NewRecorder()
	h.ListRides()(rec, httptest.NewRequest("GET", "/rides?ordering=-distance&longitude=3", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[struct {
		Error  string              `json:"error"`
		Fields map[string][]string `json:"fields"`
	}](t, rec)
	assert.Equal(t, "invalid request", body.Error)
	assert.Contains(t, body.Fields, myerrors.NonFieldErrors)
}

func TestGetRide(t *testing.T) {
	h := newRidesHandler(&fakePlanner{rides: seedRides(2)}, &fakeRidesService{})

	req := httptest.NewRequest("GET", "/rides/2", nil)
	req.SetPathValue("ride_id", "2")
	rec := httptest.NewRecorder()
	h.GetRide()(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decodeBody[map[string]any](t, rec)["id"])

	req = httptest.NewRequest("GET", "/rides/99", nil)
	req.SetPathValue("ride_id", "99")
	rec = httptest.NewRecorder()
	h.GetRide()(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateRide(t *testing.T) {
	rs := &fakeRidesService{created: seedRides(1)[0]}
	h := newRidesHandler(&fakePlanner{}, rs)

	body := `{"rider_id":1,"driver_id":2,"pickup_latitude":1,"pickup_longitude":2,` +
		`"dropoff_latitude":3,"dropoff_longitude":4,"pickup_time":"2026-03-01T09:00:00Z"}`
	rec := httptest.NewRecorder()
	h.CreateRide()(rec, httptest.NewRequest("POST", "/rides", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(1), decodeBody[map[string]any](t, rec)["id"])
}

func TestCreateRideRejectsBadJSON(t *testing.T) {
	h := newRidesHandler(&fakePlanner{}, &fakeRidesService{})

	for _, body := range []string{`{"rider_id":`, `{"unknown":1}`, `{"pickup_time":"yesterday"}`} {
		rec := httptest.NewRecorder()
		h.CreateRide()(rec, httptest.NewRequest("POST", "/rides", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestCreateRideValidationError(t *testing.T) {
	rs := &fakeRidesService{err: myerrors.FieldError("pickup_latitude", "Ensure this value is between -90 and 90.")}
	h := newRidesHandler(&fakePlanner{}, rs)

	rec := httptest.NewRecorder()
	h.CreateRide()(rec, httptest.NewRequest("POST", "/rides", strings.NewReader(`{}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t,
		`{"error":"invalid request","code":400,"fields":{"pickup_latitude":["Ensure this value is between -90 and 90."]}}`,
		rec.Body.String())
}

func TestUpdateRide(t *testing.T) {
	updated := seedRides(1)[0]
	updated.Status = model.StatusPickup
	h := newRidesHandler(&fakePlanner{}, &fakeRidesService{updated: updated})

	req := httptest.NewRequest("PATCH", "/rides/1", strings.NewReader(`{"status":"pickup"}`))
	req.SetPathValue("ride_id", "1")
	rec := httptest.NewRecorder()
	h.UpdateRide()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pickup", decodeBody[map[string]any](t, rec)["status"])
}

func TestUpdateRideBadID(t *testing.T) {
	h := newRidesHandler(&fakePlanner{}, &fakeRidesService{})

	req := httptest.NewRequest("PATCH", "/rides/x", strings.NewReader(`{}`))
	req.SetPathValue("ride_id", "x")
	rec := httptest.NewRecorder()
	h.UpdateRide()(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListEvents(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rs := &fakeRidesService{events: []model.RideEvent{
		{ID: 9, RideID: 1, Description: model.EventStatusPickup, CreatedAt: createdAt},
	}}
	h := newRidesHandler(&fakePlanner{}, rs)

	req := httptest.NewRequest("GET", "/rides/1/events", nil)
	req.SetPathValue("ride_id", "1")
	rec := httptest.NewRecorder()
	h.ListEvents()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`[{"id":9,"description":"Status changed to pickup","created_at":"2026-03-01T10:00:00Z"}]`,
		rec.Body.String())
}

func TestListEventsEmptyIsAList(t *testing.T) {
	h := newRidesHandler(&fakePlanner{}, &fakeRidesService{})

	req := httptest.NewRequest("GET", "/rides/1/events", nil)
	req.SetPathValue("ride_id", "1")
	rec := httptest.NewRecorder()
	h.ListEvents()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
