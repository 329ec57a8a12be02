package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/lacasailpaese/vetrina/internal/record"
)

// Fetch runs st on src and maps every row with m, preserving row order.
// A mapper failure aborts the whole fetch; no row is skipped.
func Fetch[T any](ctx context.Context, src Source, st Statement, params map[string]any, m record.Mapper[T]) ([]T, error) {
	out := make([]T, 0, 8)
	err := src.Query(ctx, st, params, func(rows *sqlx.Rows) error {
		v, err := m(rows)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
