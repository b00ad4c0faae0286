// Package query describes ride fetches as immutable values.
//
// A RideQuery accumulates filter, annotation, join and ordering steps. Every
// step returns a new value and leaves the receiver untouched, so a base query
// can be shared and refined freely. Nothing touches storage here: a driven
// adapter compiles the final description into one statement and executes it
// once.
package query

import (
	"errors"
	"strings"

	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/model"
)

type OrderField string

const (
	OrderID         OrderField = "id"
	OrderPickupTime OrderField = "pickup_time"
	OrderDistance   OrderField = "distance"
)

var ErrDistanceWithoutReference = errors.New("ordering by distance requires a reference coordinate")

type Ordering struct {
	Field OrderField
	Desc  bool
}

// AllowedOrderings lists the values accepted from clients, in wire form.
var AllowedOrderings = []string{"pickup_time", "-pickup_time", "distance", "-distance"}

// ParseOrdering accepts one of AllowedOrderings. A leading '-' means descending.
func ParseOrdering(s string) (Ordering, bool) {
	o := Ordering{}
	if strings.HasPrefix(s, "-") {
		o.Desc = true
		s = s[1:]
	}
	switch OrderField(s) {
	case OrderPickupTime, OrderDistance:
		o.Field = OrderField(s)
		return o, true
	default:
		return Ordering{}, false
	}
}

func (o Ordering) String() string {
	if o.Desc {
		return "-" + string(o.Field)
	}
	return string(o.Field)
}

func (o Ordering) IsDistance() bool {
	return o.Field == OrderDistance
}

type RideQuery struct {
	id    int64
	hasID bool

	status    model.RideStatus
	hasStatus bool

	riderEmail    string
	hasRiderEmail bool

	reference    model.Coordinates
	hasReference bool

	withUsers bool
	ordering  Ordering

	limit  int
	offset int
}

// Rides starts from the full ride collection in primary key order.
func Rides() RideQuery {
	return RideQuery{ordering: Ordering{Field: OrderID}}
}

// ID keeps the single ride with primary key id.
func (q RideQuery) ID(id int64) RideQuery {
	q.id = id
	q.hasID = true
	return q
}

// Status keeps rides whose status equals s.
func (q RideQuery) Status(s model.RideStatus) RideQuery {
	q.status = s
	q.hasStatus = true
	return q
}

// RiderEmail keeps rides whose rider's email equals email, ignoring case.
func (q RideQuery) RiderEmail(email string) RideQuery {
	q.riderEmail = email
	q.hasRiderEmail = true
	return q
}

// DistanceFrom annotates every ride with its planar distance from ref to the pickup point.
func (q RideQuery) DistanceFrom(ref model.Coordinates) RideQuery {
	q.reference = ref
	q.hasReference = true
	return q
}

// WithRiderAndDriver resolves both user references in the same fetch.
func (q RideQuery) WithRiderAndDriver() RideQuery {
	q.withUsers = true
	return q
}

func (q RideQuery) OrderBy(o Ordering) RideQuery {
	q.ordering = o
	return q
}

// Slice bounds the fetch to limit rows starting at offset. A zero limit means unbounded.
func (q RideQuery) Slice(limit, offset int) RideQuery {
	q.limit = limit
	q.offset = offset
	return q
}

func (q RideQuery) IDFilter() (int64, bool) {
	return q.id, q.hasID
}

func (q RideQuery) StatusFilter() (model.RideStatus, bool) {
	return q.status, q.hasStatus
}

func (q RideQuery) RiderEmailFilter() (string, bool) {
	return q.riderEmail, q.hasRiderEmail
}

func (q RideQuery) Reference() (model.Coordinates, bool) {
	return q.reference, q.hasReference
}

func (q RideQuery) IncludesUsers() bool {
	return q.withUsers
}

func (q RideQuery) Ordering() Ordering {
	return q.ordering
}

func (q RideQuery) Window() (limit, offset int) {
	return q.limit, q.offset
}

// Validate reports descriptions that cannot be compiled.
func (q RideQuery) Validate() error {
	if q.ordering.IsDistance() && !q.hasReference {
		return ErrDistanceWithoutReference
	}
	if q.limit < 0 || q.offset < 0 {
		return errors.New("negative limit or offset")
	}
	return nil
}
