// Package mock provides an in-memory database.Store for testing.
package mock

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jsetina/faceclock/internal/database"
)

// Store is an in-memory implementation of database.Store.
type Store struct {
	mu        sync.RWMutex
	employees []database.Employee
	events    []database.AttendanceEvent
	nextID    int64

	// Error injection
	InsertEmployeeError error
	ListEmployeesError  error
	InsertEventError    error
	ListEventsError     error
}

// NewStore creates an empty mock store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// InsertEmployee appends an employee row.
func (m *Store) InsertEmployee(ctx context.Context, e *database.Employee) (int64, error) {
	if m.InsertEmployeeError != nil {
		return 0, m.InsertEmployeeError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	row := *e
	row.ID = m.nextID
	m.nextID++
	m.employees = append(m.employees, row)
	return row.ID, nil
}

// ListEmployees returns all employees in insertion order.
func (m *Store) ListEmployees(ctx context.Context) ([]database.Employee, error) {
	if m.ListEmployeesError != nil {
		return nil, m.ListEmployeesError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]database.Employee, len(m.employees))
	copy(out, m.employees)
	return out, nil
}

// InsertEvent appends an attendance event row.
func (m *Store) InsertEvent(ctx context.Context, ev *database.AttendanceEvent) (int64, error) {
	if m.InsertEventError != nil {
		return 0, m.InsertEventError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	row := *ev
	row.ID = m.nextID
	m.nextID++
	m.events = append(m.events, row)
	return row.ID, nil
}

// ListEvents filters and sorts events like the real backends.
func (m *Store) ListEvents(ctx context.Context, f database.EventFilter) ([]database.AttendanceEvent, error) {
	if m.ListEventsError != nil {
		return nil, m.ListEventsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []database.AttendanceEvent
	for _, ev := range m.events {
		if f.StartDate != "" && ev.Date < f.StartDate {
			continue
		}
		if f.EndDate != "" && ev.Date > f.EndDate {
			continue
		}
		if f.Name != "" && !strings.Contains(strings.ToLower(ev.Name), strings.ToLower(f.Name)) {
			continue
		}
		if f.Department != "" && ev.Department != f.Department {
			continue
		}
		out = append(out, ev)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Time > out[j].Time
	})

	limit := f.Limit
	if limit <= 0 {
		limit = database.DefaultEventLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Departments returns distinct department names, sorted.
func (m *Store) Departments(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, e := range m.employees {
		if _, ok := seen[e.Department]; !ok {
			seen[e.Department] = struct{}{}
			out = append(out, e.Department)
		}
	}
	sort.Strings(out)
	return out, nil
}

// DailyPresence counts distinct names per date in the given month.
func (m *Store) DailyPresence(ctx context.Context, year, month int) ([]database.DailyCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byDate := make(map[string]map[string]struct{})
	prefix := fmt.Sprintf("%04d-%02d", year, month)
	for _, ev := range m.events {
		if !strings.HasPrefix(ev.Date, prefix) {
			continue
		}
		if byDate[ev.Date] == nil {
			byDate[ev.Date] = make(map[string]struct{})
		}
		byDate[ev.Date][ev.Name] = struct{}{}
	}
	var out []database.DailyCount
	for date, names := range byDate {
		out = append(out, database.DailyCount{Date: date, Present: len(names)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// DepartmentStats aggregates events per department over a date range.
func (m *Store) DepartmentStats(ctx context.Context, startDate, endDate string) ([]database.DepartmentStat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	totals := make(map[string]int)
	names := make(map[string]map[string]struct{})
	for _, ev := range m.events {
		if ev.Date < startDate || ev.Date > endDate {
			continue
		}
		totals[ev.Department]++
		if names[ev.Department] == nil {
			names[ev.Department] = make(map[string]struct{})
		}
		names[ev.Department][ev.Name] = struct{}{}
	}
	var out []database.DepartmentStat
	for dep, total := range totals {
		out = append(out, database.DepartmentStat{
			Department:  dep,
			TotalEvents: total,
			Employees:   len(names[dep]),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalEvents > out[j].TotalEvents })
	return out, nil
}

// Ranking returns employees ordered by event count over a date range.
func (m *Store) Ranking(ctx context.Context, startDate, endDate string, limit int) ([]database.EmployeeRank, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	type key struct{ name, dep, pos string }
	totals := make(map[key]int)
	days := make(map[key]map[string]struct{})
	for _, ev := range m.events {
		if ev.Date < startDate || ev.Date > endDate {
			continue
		}
		k := key{ev.Name, ev.Department, ev.Position}
		totals[k]++
		if days[k] == nil {
			days[k] = make(map[string]struct{})
		}
		days[k][ev.Date] = struct{}{}
	}
	var out []database.EmployeeRank
	for k, total := range totals {
		out = append(out, database.EmployeeRank{
			Name:        k.name,
			Department:  k.dep,
			Position:    k.pos,
			TotalEvents: total,
			DaysPresent: len(days[k]),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalEvents > out[j].TotalEvents })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Summary returns the dashboard headline numbers.
func (m *Store) Summary(ctx context.Context, today, month string) (*database.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := &database.Summary{TotalEmployees: len(m.employees)}

	deps := make(map[string]struct{})
	for _, e := range m.employees {
		deps[e.Department] = struct{}{}
	}
	sum.TotalDepartments = len(deps)

	present := make(map[string]struct{})
	for _, ev := range m.events {
		if ev.Date == today {
			present[ev.Name] = struct{}{}
		}
		if strings.HasPrefix(ev.Date, month) {
			sum.EventsThisMonth++
		}
	}
	sum.PresentToday = len(present)
	return sum, nil
}

// Backend names this backend.
func (m *Store) Backend() string { return "mock" }

// Close is a no-op.
func (m *Store) Close() error { return nil }

// EventCount reports how many events were inserted (test helper).
func (m *Store) EventCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}

var _ database.Store = (*Store)(nil)
