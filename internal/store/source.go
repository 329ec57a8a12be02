// internal/store/source.go
//
// Data-source capability used by page handlers.
//
// Context
// -------
// Handlers never touch *sqlx.DB directly.  They receive a Source and ask it
// to run one Statement, visiting each row through a callback.  Two
// implementations exist:
//
//   - Shared – one connection guarded by a mutex.  At most one statement is
//     in flight process-wide; the lock is held from prepare until the last
//     row has been visited.  This is the default and matches the traffic
//     the site sees.
//   - Pooled – hands statements straight to the database/sql pool.  Reads
//     run concurrently, bounded by the pool size.  Not usable with an
//     in-memory SQLite database, where every connection is a new database.
//
// Errors
// ------
// Prepare, execute, and iteration failures are wrapped in *QueryError.
// Errors returned by the row callback (usually *record.RowDecodeError) are
// passed through untouched.
//
// Notes
// -----
//   - A request blocked on the Shared lock waits until it is released.  The
//     request context only takes effect once the driver has the statement.
//   - Oxford commas, two spaces after periods.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lacasailpaese/vetrina/internal/metrics"
)

// Source runs named statements.  Implementations must be safe for
// concurrent use.
type Source interface {
	Query(ctx context.Context, st Statement, params map[string]any, each func(*sqlx.Rows) error) error
	Ping(ctx context.Context) error
	Close() error
}

// QueryError reports a statement that failed to prepare, execute, or
// iterate.
type QueryError struct {
	Statement string
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Statement, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// compile-time assertions
var (
	_ Source = (*Shared)(nil)
	_ Source = (*Pooled)(nil)
)

//
// Shared
//

// Shared serialises every statement over a single connection.
type Shared struct {
	mu sync.Mutex
	db *sqlx.DB
}

// NewShared takes ownership of db and pins its pool to one connection.
func NewShared(db *sqlx.DB) *Shared {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return &Shared{db: db}
}

// Query acquires the lock, runs st, and visits every row before releasing.
func (s *Shared) Query(ctx context.Context, st Statement, params map[string]any, each func(*sqlx.Rows) error) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	metrics.LockWait.Observe(time.Since(start).Seconds())

	return run(ctx, s.db, st, params, each)
}

// Ping checks the connection under the same lock as queries.
func (s *Shared) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.PingContext(ctx)
}

func (s *Shared) Close() error { return s.db.Close() }

//
// Pooled
//

// Pooled runs statements concurrently on the database/sql pool.
type Pooled struct {
	db *sqlx.DB
}

// NewPooled wraps db without changing its pool settings.
func NewPooled(db *sqlx.DB) *Pooled { return &Pooled{db: db} }

func (p *Pooled) Query(ctx context.Context, st Statement, params map[string]any, each func(*sqlx.Rows) error) error {
	return run(ctx, p.db, st, params, each)
}

func (p *Pooled) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }
func (p *Pooled) Close() error                   { return p.db.Close() }

//
// shared helpers
//

// run binds params, executes st, and feeds each row to the callback.
func run(ctx context.Context, db *sqlx.DB, st Statement, params map[string]any, each func(*sqlx.Rows) error) error {
	defer func(start time.Time) {
		metrics.QueryDuration.WithLabelValues(st.Name).Observe(time.Since(start).Seconds())
	}(time.Now())

	if params == nil {
		params = map[string]any{}
	}
	q, args, err := sqlx.Named(st.SQL, params)
	if err != nil {
		return &QueryError{Statement: st.Name, Err: err}
	}

	rows, err := db.QueryxContext(ctx, db.Rebind(q), args...)
	if err != nil {
		return &QueryError{Statement: st.Name, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		if err := each(rows); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return &QueryError{Statement: st.Name, Err: err}
	}
	return nil
}
