package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/digivantrix/campaigns/internal/core"
	"github.com/digivantrix/campaigns/internal/logging"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// respondError maps service errors onto HTTP responses. Handlers that
// want an entity-specific not-found message check core.ErrNotFound
// themselves before falling through to this.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		if len(vErr.Missing) > 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":   vErr.Error(),
				"missing": vErr.Missing,
			})
			return
		}
		writeError(w, http.StatusBadRequest, vErr.Error())
		return
	}

	var bErr *core.BatchError
	if errors.As(err, &bErr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  bErr.Error(),
			"errors": bErr.RowErrors,
		})
		return
	}

	switch {
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, core.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, core.ErrTooManyUploads):
		writeError(w, http.StatusTooManyRequests, "Too many concurrent uploads")
	default:
		logging.FromContext(r.Context()).Error("request failed",
			"path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func notFound(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusNotFound, msg)
}
