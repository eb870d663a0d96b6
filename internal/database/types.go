package database

import "time"

// Employee represents a registered employee row.
type Employee struct {
	ID          int64
	Name        string
	Department  string
	Position    string
	EncodingRef string // path of the face encoding blob for this registration
	CreatedAt   time.Time
}

// Summary returns the identity fields used for matching and event rows.
func (e *Employee) Summary() EmployeeSummary {
	return EmployeeSummary{
		Name:       e.Name,
		Department: e.Department,
		Position:   e.Position,
	}
}

// EmployeeSummary is the identity metadata attached to a face encoding.
type EmployeeSummary struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

// AttendanceEvent represents one recorded attendance row.
// Date and Time are kept as strings ("2006-01-02", "15:04:05") so both
// backends produce identical row shapes.
type AttendanceEvent struct {
	ID         int64
	Name       string
	Department string
	Position   string
	Date       string
	Time       string
	ImagePath  string
	CreatedAt  time.Time
}

// EventFilter narrows attendance log listings. Zero values mean "no filter".
type EventFilter struct {
	StartDate  string // inclusive, "2006-01-02"
	EndDate    string // inclusive
	Name       string // substring match, case-insensitive
	Department string // exact match
	Limit      int    // 0 uses DefaultEventLimit
}

// DefaultEventLimit caps attendance log listings, matching the dashboard.
const DefaultEventLimit = 1000

// DailyCount is the number of distinct employees present on one date.
type DailyCount struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
}

// DepartmentStat aggregates attendance per department over a date range.
type DepartmentStat struct {
	Department  string `json:"department"`
	TotalEvents int    `json:"total_events"`
	Employees   int    `json:"employees"`
}

// EmployeeRank is one row of the attendance ranking.
type EmployeeRank struct {
	Name        string `json:"name"`
	Department  string `json:"department"`
	Position    string `json:"position"`
	TotalEvents int    `json:"total_events"`
	DaysPresent int    `json:"days_present"`
}

// Summary holds the dashboard headline numbers.
type Summary struct {
	TotalEmployees   int `json:"total_employees"`
	PresentToday     int `json:"present_today"`
	TotalDepartments int `json:"total_departments"`
	EventsThisMonth  int `json:"events_this_month"`
}
