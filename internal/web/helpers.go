package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/tmpllc001/focusmetrics/internal/compare"
	"github.com/tmpllc001/focusmetrics/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func readJSON(r *http.Request, v any) error {
	defer func() { _ = r.Body.Close() }()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Validationf("body", "invalid JSON: %v", err)
	}
	return nil
}

// parseRange reads either explicit start/end RFC3339 parameters or a
// trailing days window (default 30).
func parseRange(r *http.Request) (compare.DateRange, error) {
	q := r.URL.Query()
	if startStr := q.Get("start"); startStr != "" {
		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return compare.DateRange{}, domain.Validationf("start", "invalid RFC3339 time %q", startStr)
		}
		end, err := time.Parse(time.RFC3339, q.Get("end"))
		if err != nil {
			return compare.DateRange{}, domain.Validationf("end", "invalid RFC3339 time %q", q.Get("end"))
		}
		rng := compare.DateRange{Start: start, End: end}
		return rng, rng.Validate()
	}
	// Truncated so repeated default-range calls hit the same cache keys.
	return compare.LastDays(time.Now().Truncate(time.Minute), queryInt(r, "days", 30)), nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
