// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/store"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserSummary identifies the logged-in user.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	Message string      `json:"message"`
	ID      int64       `json:"id,omitempty"`
	User    UserSummary `json:"user"`
}

// MeResponse is returned by GET /auth/me.
type MeResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

func summaryOf(u store.User) UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}

// startSession renews the session token and binds it to user.
func (h *Handler) startSession(r *http.Request, user store.User) error {
	if err := h.sm.RenewToken(r.Context()); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	h.sm.Put(r.Context(), middleware.SessionKeyUserID, user.ID)
	return nil
}

// Register handles POST /auth/register. The new user is logged in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.svc.Accounts.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.startSession(r, user); err != nil {
		h.fail(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, AuthResponse{
		Message: "User registered successfully",
		ID:      user.ID,
		User:    summaryOf(user),
	})
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	username := strings.TrimSpace(req.Username)

	if locked, remaining := h.protection.IsAccountLocked(username); locked {
		h.fail(w, r, lockedError(remaining))
		return
	}

	user, err := h.svc.Accounts.Authenticate(r.Context(), username, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) && username != "" {
			if locked, d := h.protection.RecordFailedAttempt(username); locked {
				h.svc.Events.LogAuthEvent(r.Context(), model.EventLevelWarning, "Account locked after failed login attempts",
					middleware.GetIdentity(r), map[string]any{"username": username, "duration": d.String()})
				h.fail(w, r, lockedError(d))
				return
			}
		}
		h.fail(w, r, err)
		return
	}
	h.protection.RecordSuccessfulLogin(username)

	if err := h.startSession(r, user); err != nil {
		h.fail(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, AuthResponse{
		Message: "Logged in successfully",
		User:    summaryOf(user),
	})
}

func lockedError(remaining time.Duration) error {
	return &model.Error{
		Kind:    model.KindTooManyAttempts,
		Message: fmt.Sprintf("Too many failed login attempts. Try again in %s", remaining.Round(time.Second)),
	}
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.svc.Accounts.LogLogout(r.Context(), middleware.GetIdentity(r))

	if err := h.sm.Destroy(r.Context()); err != nil {
		h.fail(w, r, fmt.Errorf("destroying session: %w", err))
		return
	}
	WriteMessage(w, "Logged out successfully")
}

// Me handles GET /auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Accounts.GetUser(r.Context(), middleware.GetIdentity(r).UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, MeResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
	})
}
