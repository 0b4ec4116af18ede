package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"astana/internal/core"
)

var validationErrs = []error{
	core.ErrEmptyCode,
	core.ErrInvalidCode,
	core.ErrInvalidCapacity,
	core.ErrInvalidAmount,
	core.ErrInvalidStatus,
	core.ErrEmptyName,
	core.ErrEmptyNumber,
	core.ErrInvalidDate,
	core.ErrInvalidBlock,
	core.ErrInvalidGrave,
	core.ErrInvalidHeirOrder,
	core.ErrTooManyHeirs,
	core.ErrInvalidPage,
}

var conflictErrs = []error{
	core.ErrDuplicateYear,
	core.ErrDuplicateGraveNumber,
	core.ErrDuplicateBlockCode,
	core.ErrDuplicateHeirOrder,
	core.ErrBlockHasGraves,
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	if errors.Is(err, core.ErrNotFound) {
		return http.StatusNotFound
	}
	for _, e := range conflictErrs {
		if errors.Is(err, e) {
			return http.StatusConflict
		}
	}
	for _, e := range validationErrs {
		if errors.Is(err, e) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "url", r.URL.Path, "error", err)
		writeJSON(w, status, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// pathID parses the {id} wildcard of the matched route.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// queryInt64 parses an optional integer query parameter, returning def when absent.
func queryInt64(r *http.Request, name string, def int64) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
