package controllers

import (
	"net/http"
	"strconv"

	h "eventconnect/internal/delivery/http/helpers"
	"eventconnect/internal/delivery/http/middleware"
)

// pathID parses a positive int64 path value. On failure it writes a 400 and returns false.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.PathValue(name)
	if raw == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing "+name)
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// subject returns the authenticated subject. On failure it writes a 401 and returns false.
func subject(w http.ResponseWriter, r *http.Request) (string, bool) {
	sub, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
	}
	return sub, ok
}
