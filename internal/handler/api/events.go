// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/util"
)

// EventAPIResponse is an audit log entry.
type EventAPIResponse struct {
	ID        int64           `json:"id"`
	Level     string          `json:"level"`
	Category  string          `json:"category"`
	Message   string          `json:"message"`
	UserID    *int64          `json:"user_id"`
	Username  *string         `json:"username"`
	Metadata  json.RawMessage `json:"metadata"`
	IPAddress string          `json:"ip_address"`
	CreatedAt time.Time       `json:"created_at"`
}

// EventListResponse is one page of events.
type EventListResponse struct {
	Events []EventAPIResponse `json:"events"`
	service.PageInfo
}

// ListEvents handles GET /api/events?page&per_page&level&category.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.svc.Events.List(r.Context(), middleware.GetIdentity(r), service.EventFilter{
		Level:       q.Get("level"),
		Category:    q.Get("category"),
		PageRequest: parsePageRequest(r),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := EventListResponse{
		Events:   make([]EventAPIResponse, 0, len(list.Events)),
		PageInfo: list.PageInfo,
	}
	for _, e := range list.Events {
		metadata := json.RawMessage(e.Metadata)
		if !json.Valid(metadata) {
			metadata = json.RawMessage("{}")
		}
		resp.Events = append(resp.Events, EventAPIResponse{
			ID:        e.ID,
			Level:     e.Level,
			Category:  e.Category,
			Message:   e.Message,
			UserID:    util.PtrFromNullInt64(e.UserID),
			Username:  util.PtrFromNullString(e.Username),
			Metadata:  metadata,
			IPAddress: e.IpAddress,
			CreatedAt: e.CreatedAt,
		})
	}
	WriteJSON(w, http.StatusOK, resp)
}
