// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON HTTP handlers of the blog.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/service"
)

// maxBodyBytes limits request bodies.
const maxBodyBytes = 1 << 20

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	svc        *service.Services
	sm         *scs.SessionManager
	protection *middleware.LoginProtection
}

// NewHandler creates a new API handler.
func NewHandler(svc *service.Services, sm *scs.SessionManager, protection *middleware.LoginProtection) *Handler {
	return &Handler{svc: svc, sm: sm, protection: protection}
}

// MessageResponse is the body of successful mutations.
type MessageResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteMessage writes a 200 response carrying message.
func WriteMessage(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusOK, MessageResponse{Message: message})
}

// WriteCreated writes a 201 response carrying message and the new id.
func WriteCreated(w http.ResponseWriter, message string, id int64) {
	WriteJSON(w, http.StatusCreated, MessageResponse{Message: message, ID: id})
}

// StatusFor maps an error kind to its HTTP status code.
func StatusFor(kind model.ErrorKind) int {
	switch kind {
	case model.KindValidation, model.KindDuplicateField, model.KindConflict:
		return http.StatusBadRequest
	case model.KindInvalidCredentials, model.KindUnauthorized:
		return http.StatusUnauthorized
	case model.KindForbidden:
		return http.StatusForbidden
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindTooManyAttempts:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as a JSON error. Domain errors keep their message;
// anything else is logged and reported as internal_error.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var e *model.Error
	if errors.As(err, &e) {
		middleware.WriteAPIError(w, StatusFor(e.Kind), e.Kind, e.Message, e.Field)
		return
	}

	slog.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", chimw.GetReqID(r.Context()),
		"error", err,
	)
	middleware.WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Internal server error", "")
}

// fail writes err like WriteError. Unauthorized and forbidden outcomes are
// also recorded as an "Access denied" auth event.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if kind := model.KindOf(err); kind == model.KindForbidden || kind == model.KindUnauthorized {
		h.svc.Events.LogAuthEvent(r.Context(), model.EventLevelWarning, "Access denied", middleware.GetIdentity(r),
			map[string]any{"method": r.Method, "path": r.URL.Path, "reason": string(kind)})
	}
	WriteError(w, r, err)
}

// errInvalidBody is returned for bodies that are not valid JSON of the expected shape.
var errInvalidBody = model.NewValidationError("", "Invalid JSON body")

// decodeJSON decodes the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return errInvalidBody
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errInvalidBody
	}
	return nil
}

// parseIDParam parses the {id} URL parameter.
func parseIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewValidationError("id", "Invalid id")
	}
	return id, nil
}

// parsePageRequest reads page and per_page. Missing or non-numeric values
// fall back to the defaults.
func parsePageRequest(r *http.Request) service.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	return service.PageRequest{Page: page, PerPage: perPage}.Normalize()
}

// NotFound answers unknown routes.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteAPIError(w, http.StatusNotFound, model.KindNotFound, "Resource not found", "")
}

// MethodNotAllowed answers known routes called with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", "")
}
