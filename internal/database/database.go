// Package database defines the storage contract shared by the PostgreSQL and
// SQLite backends. Both backends create the same logical schema and return
// the same typed records; placeholder syntax, auto-increment and date
// extraction SQL stay inside the backend subpackages.
package database

import (
	"context"
	"errors"
)

// ErrConnection indicates the backend could not be reached. It is only
// surfaced during startup, where it triggers the SQLite fallback.
var ErrConnection = errors.New("database connection failed")

// Store is the uniform persistence contract over the two entity tables.
type Store interface {
	// InsertEmployee inserts a new employee row and returns its id.
	// No uniqueness is enforced on the name; re-registration inserts a
	// second row.
	InsertEmployee(ctx context.Context, e *Employee) (int64, error)

	// ListEmployees returns all employees ordered by id (registration order).
	ListEmployees(ctx context.Context) ([]Employee, error)

	// InsertEvent inserts one attendance event row and returns its id.
	InsertEvent(ctx context.Context, ev *AttendanceEvent) (int64, error)

	// ListEvents returns attendance events matching the filter, ordered by
	// date descending then time descending.
	ListEvents(ctx context.Context, f EventFilter) ([]AttendanceEvent, error)

	// Departments returns the distinct department names, sorted.
	Departments(ctx context.Context) ([]string, error)

	// DailyPresence returns per-day distinct employee counts for one month.
	DailyPresence(ctx context.Context, year, month int) ([]DailyCount, error)

	// DepartmentStats aggregates events per department over an inclusive
	// date range.
	DepartmentStats(ctx context.Context, startDate, endDate string) ([]DepartmentStat, error)

	// Ranking returns employees ordered by event count over a date range.
	Ranking(ctx context.Context, startDate, endDate string, limit int) ([]EmployeeRank, error)

	// Summary returns the dashboard headline numbers. today is "2006-01-02",
	// month is "2006-01".
	Summary(ctx context.Context, today, month string) (*Summary, error)

	// Backend names the active backend ("postgres" or "sqlite").
	Backend() string

	Close() error
}
