package services

import (
	"context"

	"github.com/orlantquijada/wingz/internal/ride-service/core/myerrors"
)

// PageSource is an ordered collection that can be counted and sliced.
type PageSource[T any] interface {
	Count(ctx context.Context) (int, error)
	Fetch(ctx context.Context, limit, offset int) ([]T, error)
}

type PageRequest struct {
	Page int
	Size int
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Size
}

type Page[T any] struct {
	Items []T
	Count int
	PageRequest
}

// Paginate counts src, then fetches the requested slice. Page 1 of an empty
// source is a valid empty page; any other page past the end is ErrInvalidPage.
func Paginate[T any](ctx context.Context, src PageSource[T], req PageRequest) (Page[T], error) {
	if req.Page < 1 || req.Size < 1 {
		return Page[T]{}, myerrors.ErrInvalidPage
	}

	count, err := src.Count(ctx)
	if err != nil {
		return Page[T]{}, err
	}

	res := Page[T]{Items: []T{}, Count: count, PageRequest: req}
	if req.Offset() >= count {
		if req.Page > 1 {
			return Page[T]{}, myerrors.ErrInvalidPage
		}
		return res, nil
	}

	items, err := src.Fetch(ctx, req.Size, req.Offset())
	if err != nil {
		return Page[T]{}, err
	}
	if items != nil {
		res.Items = items
	}
	return res, nil
}
