package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kaushalkrsna1602/auraflow/internal/tribe"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps core errors to HTTP statuses. Sentinel messages are
// surfaced verbatim; anything else is a store failure, logged with context
// and reported generically.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case tribe.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case tribe.IsAuthz(err):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case tribe.IsConflict(err):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case tribe.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		logger.Error("store failure", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "something went wrong"})
	}
}

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

func parsePathInt(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

func parseLimit(s string) (int, error) {
	return strconv.Atoi(s)
}
