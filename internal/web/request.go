package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/digivantrix/campaigns/internal/core"
	"github.com/go-chi/chi/v5"
)

// decodeJSON parses a JSON request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &core.ValidationError{Msg: "invalid JSON body: " + err.Error()}
	}
	return nil
}

// idParam extracts the {id} route parameter as a positive integer.
func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &core.ValidationError{Msg: "invalid id"}
	}
	return id, nil
}

// dateRangeQuery reads optional from/to query parameters as ISO dates.
func dateRangeQuery(r *http.Request) (core.DateRange, error) {
	var dr core.DateRange
	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return dr, &core.ValidationError{Msg: "invalid from date, expected YYYY-MM-DD"}
		}
		dr.From = &t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return dr, &core.ValidationError{Msg: "invalid to date, expected YYYY-MM-DD"}
		}
		dr.To = &t
	}
	return dr, nil
}

// intQuery reads an optional integer query parameter, falling back to def.
func intQuery(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
