// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"

	"github.com/olegiv/oblog/internal/middleware"
)

// GetSettings handles GET /api/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.Settings.All(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, settings)
}

// UpdateSettings handles POST /api/settings with a {key: value} object.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var values map[string]json.RawMessage
	if err := decodeJSON(w, r, &values); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.Settings.Update(r.Context(), middleware.GetIdentity(r), values); err != nil {
		h.fail(w, r, err)
		return
	}
	WriteMessage(w, "Settings updated successfully")
}
