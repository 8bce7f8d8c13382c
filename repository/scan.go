package repository

import (
	"context"

	"github.com/movi-app/movi/pkg/query"
)

// runner is the part of *query.Executor the repositories use.
type runner interface {
	Rows(ctx context.Context, q query.Query) (query.RowSet, error)
	Scan(ctx context.Context, dest any, q query.Query) error
	Exec(ctx context.Context, q query.Query) (int64, error)
}

func scanAll[T any](ctx context.Context, exec runner, q query.Query) ([]T, error) {
	var out []T
	if err := exec.Scan(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

func scanOne[T any](ctx context.Context, exec runner, q query.Query) (T, error) {
	var out T
	if err := exec.Scan(ctx, &out, q); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
