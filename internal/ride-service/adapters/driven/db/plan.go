package db

import (
	"fmt"
	"strings"

	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/query"
)

const rideColumns = "r.ride_id, r.status, r.rider_id, r.driver_id, " +
	"r.pickup_latitude, r.pickup_longitude, r.dropoff_latitude, r.dropoff_longitude, r.pickup_time"

const userColumns = "rider.user_id, rider.first_name, rider.last_name, rider.email, rider.phone_number, " +
	"driver.user_id, driver.first_name, driver.last_name, driver.email, driver.phone_number"

const (
	joinRider  = "JOIN users rider ON rider.user_id = r.rider_id"
	joinDriver = "JOIN users driver ON driver.user_id = r.driver_id"
)

// distanceExpr mirrors model.Distance: planar norm over raw degrees.
const distanceExpr = "sqrt(power(r.pickup_latitude - %s::double precision, 2) + power(r.pickup_longitude - %s::double precision, 2))"

// sqlArgs collects positional arguments and hands out their placeholders.
type sqlArgs []any

func (a *sqlArgs) add(v any) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

// compiledQuery is one SQL statement ready to send.
type compiledQuery struct {
	SQL          string
	Args         []any
	WithUsers    bool
	WithDistance bool
}

// compileRideSelect turns q into a single SELECT over rides, joined with both
// users when requested and annotated with distance when a reference is set.
func compileRideSelect(q query.RideQuery) (compiledQuery, error) {
	if err := q.Validate(); err != nil {
		return compiledQuery{}, err
	}

	var args sqlArgs
	cq := compiledQuery{WithUsers: q.IncludesUsers()}

	cols := []string{rideColumns}
	if cq.WithUsers {
		cols = append(cols, userColumns)
	}
	if ref, ok := q.Reference(); ok {
		cq.WithDistance = true
		cols = append(cols, fmt.Sprintf(distanceExpr, args.add(ref.Latitude), args.add(ref.Longitude))+" AS distance")
	}

	parts := []string{"SELECT", strings.Join(cols, ", "), "FROM rides r"}
	_, filtersByEmail := q.RiderEmailFilter()
	if cq.WithUsers || filtersByEmail {
		parts = append(parts, joinRider)
	}
	if cq.WithUsers {
		parts = append(parts, joinDriver)
	}

	if where := compileWhere(q, &args); where != "" {
		parts = append(parts, where)
	}
	parts = append(parts, compileOrderBy(q.Ordering()))

	limit, offset := q.Window()
	if limit > 0 {
		parts = append(parts, "LIMIT "+args.add(limit))
	}
	if offset > 0 {
		parts = append(parts, "OFFSET "+args.add(offset))
	}

	cq.SQL = strings.Join(parts, " ")
	cq.Args = args
	return cq, nil
}

// compileRideCount counts the rides matching the filters of q.
func compileRideCount(q query.RideQuery) compiledQuery {
	var args sqlArgs
	parts := []string{"SELECT COUNT(*) FROM rides r"}
	if _, ok := q.RiderEmailFilter(); ok {
		parts = append(parts, joinRider)
	}
	if where := compileWhere(q, &args); where != "" {
		parts = append(parts, where)
	}
	return compiledQuery{SQL: strings.Join(parts, " "), Args: args}
}

func compileWhere(q query.RideQuery, args *sqlArgs) string {
	var conds []string
	if id, ok := q.IDFilter(); ok {
		conds = append(conds, "r.ride_id = "+args.add(id))
	}
	if status, ok := q.StatusFilter(); ok {
		conds = append(conds, "r.status = "+args.add(string(status)))
	}
	if email, ok := q.RiderEmailFilter(); ok {
		conds = append(conds, "lower(rider.email) = lower("+args.add(email)+")")
	}
	if len(conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(conds, " AND ")
}

// compileOrderBy always ends with the primary key so pages are stable.
func compileOrderBy(o query.Ordering) string {
	dir := "ASC"
	if o.Desc {
		dir = "DESC"
	}
	switch o.Field {
	case query.OrderPickupTime:
		return "ORDER BY r.pickup_time " + dir + ", r.ride_id ASC"
	case query.OrderDistance:
		return "ORDER BY distance " + dir + ", r.ride_id ASC"
	default:
		return "ORDER BY r.ride_id " + dir
	}
}
