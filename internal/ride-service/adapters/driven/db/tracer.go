package db

import (
	"context"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
)

// QueryCounter is installed as the pool tracer. Every statement sent on a
// context carrying a RoundTrips counter increments it.
type QueryCounter struct{}

type RoundTrips struct {
	n atomic.Int64
}

func (r *RoundTrips) Count() int {
	if r == nil {
		return 0
	}
	return int(r.n.Load())
}

type roundTripsKey struct{}

// WithRoundTrips returns a child context whose statements are counted.
func WithRoundTrips(ctx context.Context) (context.Context, *RoundTrips) {
	rt := &RoundTrips{}
	return context.WithValue(ctx, roundTripsKey{}, rt), rt
}

func roundTripsFrom(ctx context.Context) *RoundTrips {
	rt, _ := ctx.Value(roundTripsKey{}).(*RoundTrips)
	return rt
}

func (QueryCounter) TraceQueryStart(ctx context.Context, _ *pgx.Conn, _ pgx.TraceQueryStartData) context.Context {
	if rt := roundTripsFrom(ctx); rt != nil {
		rt.n.Add(1)
	}
	return ctx
}

func (QueryCounter) TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData) {}
