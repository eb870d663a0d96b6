package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jsetina/faceclock/internal/database"
)

// InsertEmployee inserts a new employee row and returns its id.
func (s *Store) InsertEmployee(ctx context.Context, e *database.Employee) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (name, department, position, encoding_ref)
		VALUES (?, ?, ?, ?)`,
		e.Name, e.Department, e.Position, e.EncodingRef)
	if err != nil {
		return 0, fmt.Errorf("inserting employee: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading employee id: %w", err)
	}
	return id, nil
}

// ListEmployees returns all employees in registration order.
func (s *Store) ListEmployees(ctx context.Context) ([]database.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, department, position, encoding_ref, created_at
		FROM employees
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	defer rows.Close()

	var employees []database.Employee
	for rows.Next() {
		var e database.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Department, &e.Position, &e.EncodingRef, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating employees: %w", err)
	}
	return employees, nil
}

// InsertEvent inserts one attendance event row and returns its id.
func (s *Store) InsertEvent(ctx context.Context, ev *database.AttendanceEvent) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance_events (name, department, position, date, time, image_path)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.Name, ev.Department, ev.Position, ev.Date, ev.Time, ev.ImagePath)
	if err != nil {
		return 0, fmt.Errorf("inserting attendance event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading event id: %w", err)
	}
	return id, nil
}

// ListEvents returns attendance events matching the filter, newest first.
func (s *Store) ListEvents(ctx context.Context, f database.EventFilter) ([]database.AttendanceEvent, error) {
	query := `
		SELECT id, name, department, position, date, time,
		       COALESCE(image_path, ''), created_at
		FROM attendance_events
		WHERE 1=1`
	var args []any

	if f.StartDate != "" {
		query += " AND date >= ?"
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		query += " AND date <= ?"
		args = append(args, f.EndDate)
	}
	if f.Name != "" {
		query += " AND name LIKE ?"
		args = append(args, "%"+f.Name+"%")
	}
	if f.Department != "" {
		query += " AND department = ?"
		args = append(args, f.Department)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = database.DefaultEventLimit
	}
	query += " ORDER BY date DESC, time DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing attendance events: %w", err)
	}
	defer rows.Close()

	var events []database.AttendanceEvent
	for rows.Next() {
		var ev database.AttendanceEvent
		if err := rows.Scan(&ev.ID, &ev.Name, &ev.Department, &ev.Position,
			&ev.Date, &ev.Time, &ev.ImagePath, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning attendance event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attendance events: %w", err)
	}
	return events, nil
}

// Departments returns distinct department names, sorted.
func (s *Store) Departments(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT department FROM employees
		WHERE department IS NOT NULL
		ORDER BY department`)
	if err != nil {
		return nil, fmt.Errorf("listing departments: %w", err)
	}
	defer rows.Close()

	var departments []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning department: %w", err)
		}
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating departments: %w", err)
	}
	return departments, nil
}

// DailyPresence returns distinct employee counts per day for one month.
func (s *Store) DailyPresence(ctx context.Context, year, month int) ([]database.DailyCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, COUNT(DISTINCT name)
		FROM attendance_events
		WHERE strftime('%Y', date) = ? AND strftime('%m', date) = ?
		GROUP BY date
		ORDER BY date`,
		fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month))
	if err != nil {
		return nil, fmt.Errorf("querying daily presence: %w", err)
	}
	defer rows.Close()

	var counts []database.DailyCount
	for rows.Next() {
		var c database.DailyCount
		if err := rows.Scan(&c.Date, &c.Present); err != nil {
			return nil, fmt.Errorf("scanning daily presence: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating daily presence: %w", err)
	}
	return counts, nil
}

// DepartmentStats aggregates events per department over a date range.
func (s *Store) DepartmentStats(ctx context.Context, startDate, endDate string) ([]database.DepartmentStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT department, COUNT(*), COUNT(DISTINCT name)
		FROM attendance_events
		WHERE date BETWEEN ? AND ? AND department IS NOT NULL
		GROUP BY department
		ORDER BY COUNT(*) DESC`,
		startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("querying department stats: %w", err)
	}
	defer rows.Close()

	var stats []database.DepartmentStat
	for rows.Next() {
		var st database.DepartmentStat
		if err := rows.Scan(&st.Department, &st.TotalEvents, &st.Employees); err != nil {
			return nil, fmt.Errorf("scanning department stat: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating department stats: %w", err)
	}
	return stats, nil
}

// Ranking returns employees ordered by event count over a date range.
func (s *Store) Ranking(ctx context.Context, startDate, endDate string, limit int) ([]database.EmployeeRank, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, department, position, COUNT(*), COUNT(DISTINCT date)
		FROM attendance_events
		WHERE date BETWEEN ? AND ?
		GROUP BY name, department, position
		ORDER BY COUNT(*) DESC
		LIMIT ?`,
		startDate, endDate, limit)
	if err != nil {
		return nil, fmt.Errorf("querying ranking: %w", err)
	}
	defer rows.Close()

	var ranks []database.EmployeeRank
	for rows.Next() {
		var r database.EmployeeRank
		if err := rows.Scan(&r.Name, &r.Department, &r.Position, &r.TotalEvents, &r.DaysPresent); err != nil {
			return nil, fmt.Errorf("scanning ranking row: %w", err)
		}
		ranks = append(ranks, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ranking: %w", err)
	}
	return ranks, nil
}

// Summary returns the dashboard headline numbers.
func (s *Store) Summary(ctx context.Context, today, month string) (*database.Summary, error) {
	var sum database.Summary

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM employees`).Scan(&sum.TotalEmployees)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("counting employees: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT name) FROM attendance_events WHERE date = ?`,
		today).Scan(&sum.PresentToday)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("counting present today: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT department) FROM employees WHERE department IS NOT NULL`).
		Scan(&sum.TotalDepartments)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("counting departments: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attendance_events WHERE strftime('%Y-%m', date) = ?`,
		month).Scan(&sum.EventsThisMonth)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("counting events this month: %w", err)
	}

	return &sum, nil
}
