package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jsetina/faceclock/internal/database"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_MigrationIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first open failed: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second open failed: %v", err)
	}
	s2.Close()
}

func TestInsertEmployee_NoNameUniqueness(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e := &database.Employee{Name: "Alice", Department: "IT", Position: "Engineer", EncodingRef: "a1.json"}
	id1, err := s.InsertEmployee(ctx, e)
	if err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	e2 := &database.Employee{Name: "Alice", Department: "IT", Position: "Engineer", EncodingRef: "a2.json"}
	id2, err := s.InsertEmployee(ctx, e2)
	if err != nil {
		t.Fatalf("second insert of same name failed: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("expected increasing ids, got %d then %d", id1, id2)
	}

	employees, err := s.ListEmployees(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(employees) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(employees))
	}
	if employees[0].ID != id1 || employees[1].ID != id2 {
		t.Errorf("expected registration order, got ids %d, %d", employees[0].ID, employees[1].ID)
	}
	if employees[0].EncodingRef != "a1.json" || employees[1].EncodingRef != "a2.json" {
		t.Errorf("encoding refs not preserved: %q, %q", employees[0].EncodingRef, employees[1].EncodingRef)
	}
}

func TestListEvents_SameDayEventsKeptAndOrdered(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	events := []database.AttendanceEvent{
		{Name: "Alice", Department: "IT", Position: "Engineer", Date: "2026-08-30", Time: "08:01:05", ImagePath: "images/a1.jpg"},
		{Name: "Alice", Department: "IT", Position: "Engineer", Date: "2026-08-30", Time: "17:30:00", ImagePath: "images/a2.jpg"},
		{Name: "Bob", Department: "HR", Position: "Manager", Date: "2026-08-29", Time: "09:00:00", ImagePath: "images/b1.jpg"},
	}
	for i := range events {
		if _, err := s.InsertEvent(ctx, &events[i]); err != nil {
			t.Fatalf("insert event %d failed: %v", i, err)
		}
	}

	got, err := s.ListEvents(ctx, database.EventFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}

	// Newest date first, then time descending within the day.
	if got[0].Time != "17:30:00" || got[1].Time != "08:01:05" {
		t.Errorf("same-day events not ordered by time desc: %s, %s", got[0].Time, got[1].Time)
	}
	if got[2].Name != "Bob" {
		t.Errorf("expected Bob last, got %s", got[2].Name)
	}
}

func TestListEvents_Filters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	seed := []database.AttendanceEvent{
		{Name: "Alice", Department: "IT", Position: "Engineer", Date: "2026-08-01", Time: "08:00:00"},
		{Name: "Bob", Department: "HR", Position: "Manager", Date: "2026-08-15", Time: "08:30:00"},
		{Name: "Carol", Department: "IT", Position: "Analyst", Date: "2026-08-20", Time: "09:00:00"},
	}
	for i := range seed {
		if _, err := s.InsertEvent(ctx, &seed[i]); err != nil {
			t.Fatalf("seed insert failed: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter database.EventFilter
		want   int
	}{
		{"no filter", database.EventFilter{}, 3},
		{"date range", database.EventFilter{StartDate: "2026-08-10", EndDate: "2026-08-18"}, 1},
		{"name substring", database.EventFilter{Name: "aro"}, 1},
		{"department", database.EventFilter{Department: "IT"}, 2},
		{"limit", database.EventFilter{Limit: 2}, 2},
		{"no match", database.EventFilter{Department: "Sales"}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.ListEvents(ctx, tc.filter)
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if len(got) != tc.want {
				t.Errorf("expected %d events, got %d", tc.want, len(got))
			}
		})
	}
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	employees := []database.Employee{
		{Name: "Alice", Department: "IT", Position: "Engineer", EncodingRef: "a.json"},
		{Name: "Bob", Department: "HR", Position: "Manager", EncodingRef: "b.json"},
	}
	for i := range employees {
		if _, err := s.InsertEmployee(ctx, &employees[i]); err != nil {
			t.Fatalf("insert employee failed: %v", err)
		}
	}

	seed := []database.AttendanceEvent{
		{Name: "Alice", Department: "IT", Position: "Engineer", Date: "2026-08-30", Time: "08:00:00"},
		{Name: "Alice", Department: "IT", Position: "Engineer", Date: "2026-08-30", Time: "17:00:00"},
		{Name: "Bob", Department: "HR", Position: "Manager", Date: "2026-08-30", Time: "08:30:00"},
		{Name: "Bob", Department: "HR", Position: "Manager", Date: "2026-07-15", Time: "08:30:00"},
	}
	for i := range seed {
		if _, err := s.InsertEvent(ctx, &seed[i]); err != nil {
			t.Fatalf("seed insert failed: %v", err)
		}
	}

	t.Run("summary", func(t *testing.T) {
		sum, err := s.Summary(ctx, "2026-08-30", "2026-08")
		if err != nil {
			t.Fatalf("summary failed: %v", err)
		}
		if sum.TotalEmployees != 2 {
			t.Errorf("expected 2 employees, got %d", sum.TotalEmployees)
		}
		if sum.PresentToday != 2 {
			t.Errorf("expected 2 present today, got %d", sum.PresentToday)
		}
		if sum.TotalDepartments != 2 {
			t.Errorf("expected 2 departments, got %d", sum.TotalDepartments)
		}
		if sum.EventsThisMonth != 3 {
			t.Errorf("expected 3 events this month, got %d", sum.EventsThisMonth)
		}
	})

	t.Run("daily presence", func(t *testing.T) {
		counts, err := s.DailyPresence(ctx, 2026, 8)
		if err != nil {
			t.Fatalf("daily presence failed: %v", err)
		}
		if len(counts) != 1 {
			t.Fatalf("expected 1 day, got %d", len(counts))
		}
		if counts[0].Date != "2026-08-30" || counts[0].Present != 2 {
			t.Errorf("unexpected daily count: %+v", counts[0])
		}
	})

	t.Run("department stats", func(t *testing.T) {
		stats, err := s.DepartmentStats(ctx, "2026-08-01", "2026-08-31")
		if err != nil {
			t.Fatalf("department stats failed: %v", err)
		}
		if len(stats) != 2 {
			t.Fatalf("expected 2 departments, got %d", len(stats))
		}
		if stats[0].Department != "IT" || stats[0].TotalEvents != 2 {
			t.Errorf("expected IT first with 2 events, got %+v", stats[0])
		}
	})

	t.Run("ranking", func(t *testing.T) {
		ranks, err := s.Ranking(ctx, "2026-07-01", "2026-08-31", 50)
		if err != nil {
			t.Fatalf("ranking failed: %v", err)
		}
		if len(ranks) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(ranks))
		}
		if ranks[0].TotalEvents < ranks[1].TotalEvents {
			t.Errorf("ranking not descending: %+v", ranks)
		}
		for _, r := range ranks {
			if r.TotalEvents != 2 {
				t.Errorf("expected 2 events for %s, got %d", r.Name, r.TotalEvents)
			}
		}
	})

	t.Run("departments", func(t *testing.T) {
		got, err := s.Departments(ctx)
		if err != nil {
			t.Fatalf("departments failed: %v", err)
		}
		if len(got) != 2 || got[0] != "HR" || got[1] != "IT" {
			t.Errorf("expected [HR IT], got %v", got)
		}
	})
}
