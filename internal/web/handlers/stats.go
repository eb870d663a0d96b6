package handlers

import (
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jsetina/faceclock/internal/database"
)

const statsCacheTTL = time.Minute

// statsCache holds the cached summary with expiry
type statsCache struct {
	mu        sync.RWMutex
	data      *database.Summary
	expiresAt time.Time
}

func (c *statsCache) get() (*database.Summary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data == nil || time.Now().After(c.expiresAt) {
		return nil, false
	}
	return c.data, true
}

func (c *statsCache) set(data *database.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data
	c.expiresAt = time.Now().Add(statsCacheTTL)
}

func (c *statsCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
}

// StatsHandler handles the dashboard statistics endpoints
type StatsHandler struct {
	db    database.Store
	cache statsCache
	now   func() time.Time
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(db database.Store) *StatsHandler {
	return &StatsHandler{
		db:  db,
		now: time.Now,
	}
}

// InvalidateCache clears the cached summary so the next request fetches fresh data
func (h *StatsHandler) InvalidateCache() {
	h.cache.invalidate()
}

// Summary handles GET /api/v1/stats/summary
func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if cached, ok := h.cache.get(); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	now := h.now()
	summary, err := h.db.Summary(r.Context(), now.Format("2006-01-02"), now.Format("2006-01"))
	if err != nil {
		log.Printf("Failed to load summary stats: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	h.cache.set(summary)
	respondJSON(w, http.StatusOK, summary)
}

// Monthly handles GET /api/v1/stats/monthly. Defaults to the current month.
func (h *StatsHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	year, month := now.Year(), int(now.Month())

	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 2000 || n > 2200 {
			respondError(w, http.StatusBadRequest, "year must be a four digit number")
			return
		}
		year = n
	}
	if v := r.URL.Query().Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			respondError(w, http.StatusBadRequest, "month must be between 1 and 12")
			return
		}
		month = n
	}

	counts, err := h.db.DailyPresence(r.Context(), year, month)
	if err != nil {
		log.Printf("Failed to load monthly stats: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	respondJSON(w, http.StatusOK, counts)
}

// monthRange returns the first and last day of the current month.
func (h *StatsHandler) monthRange() (string, string) {
	now := h.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)
	return first.Format("2006-01-02"), last.Format("2006-01-02")
}

// dateRangeParams reads start_date/end_date, defaulting to the current month.
func (h *StatsHandler) dateRangeParams(r *http.Request) (string, string, bool) {
	start, end := h.monthRange()
	if v, ok := parseDateParam(r, "start_date"); !ok {
		return "", "", false
	} else if v != "" {
		start = v
	}
	if v, ok := parseDateParam(r, "end_date"); !ok {
		return "", "", false
	} else if v != "" {
		end = v
	}
	return start, end, true
}

// Departments handles GET /api/v1/stats/departments
func (h *StatsHandler) Departments(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.dateRangeParams(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "dates must be YYYY-MM-DD")
		return
	}

	stats, err := h.db.DepartmentStats(r.Context(), start, end)
	if err != nil {
		log.Printf("Failed to load department stats: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// Ranking handles GET /api/v1/stats/ranking
func (h *StatsHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.dateRangeParams(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "dates must be YYYY-MM-DD")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	ranks, err := h.db.Ranking(r.Context(), start, end, limit)
	if err != nil {
		log.Printf("Failed to load ranking: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	respondJSON(w, http.StatusOK, ranks)
}
