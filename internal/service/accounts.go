// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
)

// Field limits for users.
const (
	MaxUsernameLength = 64
	MaxEmailLength    = 120
)

// dummyHash is verified against when a username is unknown so both failure
// paths cost one argon2 evaluation.
var dummyHash, _ = auth.HashPassword("oblog-dummy-password")

// AccountService registers and authenticates users.
type AccountService struct {
	store  *store.Store
	events *EventService
}

// NewAccountService creates a new AccountService.
func NewAccountService(st *store.Store, events *EventService) *AccountService {
	return &AccountService{store: st, events: events}
}

// RegisterInput holds the registration fields.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func (in *RegisterInput) validate() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	switch {
	case in.Username == "":
		return model.NewValidationError("username", "Missing required fields")
	case in.Email == "":
		return model.NewValidationError("email", "Missing required fields")
	case in.Password == "":
		return model.NewValidationError("password", "Missing required fields")
	}
	if tooLong(in.Username, MaxUsernameLength) {
		return model.NewValidationError("username", fmt.Sprintf("Username must be at most %d characters", MaxUsernameLength))
	}
	if tooLong(in.Email, MaxEmailLength) {
		return model.NewValidationError("email", fmt.Sprintf("Email must be at most %d characters", MaxEmailLength))
	}
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return model.NewValidationError("email", "Invalid email address")
	}
	return nil
}

// Register creates a user. The first user ever registered becomes admin.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (store.User, error) {
	if err := in.validate(); err != nil {
		return store.User{}, err
	}

	// Hash outside the transaction so the write lock is held briefly.
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return store.User{}, fmt.Errorf("hashing password: %w", err)
	}

	var user store.User
	err = s.store.InTx(ctx, func(q *store.Queries) error {
		if n, err := q.UsernameExists(ctx, in.Username); err != nil {
			return fmt.Errorf("checking username: %w", err)
		} else if n > 0 {
			return model.NewDuplicateFieldError("username", "Username already exists")
		}
		if n, err := q.EmailExists(ctx, in.Email); err != nil {
			return fmt.Errorf("checking email: %w", err)
		} else if n > 0 {
			return model.NewDuplicateFieldError("email", "Email already exists")
		}

		count, err := q.CountUsers(ctx)
		if err != nil {
			return fmt.Errorf("counting users: %w", err)
		}

		id, err := q.CreateUser(ctx, store.CreateUserParams{
			Username:     in.Username,
			Email:        in.Email,
			PasswordHash: hash,
			IsAdmin:      count == 0,
			CreatedAt:    now(),
		})
		if err != nil {
			return mapUserWriteError(err)
		}

		user, err = q.GetUserByID(ctx, id)
		if err != nil {
			return fmt.Errorf("loading new user: %w", err)
		}
		return nil
	})
	if err != nil {
		return store.User{}, err
	}

	s.events.LogAuthEvent(ctx, model.EventLevelInfo, "User registered", IdentityOf(user),
		map[string]any{"username": user.Username, "is_admin": user.IsAdmin})
	return user, nil
}

func mapUserWriteError(err error) error {
	if store.IsUniqueViolation(err) {
		switch store.UniqueViolationField(err) {
		case "email":
			return model.NewDuplicateFieldError("email", "Email already exists")
		default:
			return model.NewDuplicateFieldError("username", "Username already exists")
		}
	}
	return fmt.Errorf("creating user: %w", err)
}

// Authenticate verifies credentials. Unknown users and wrong passwords both
// yield model.ErrInvalidCredentials. On success the login time is recorded
// and a hash with outdated parameters is replaced.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (store.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return store.User{}, model.ErrInvalidCredentials
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if !store.IsNotFound(err) {
			return store.User{}, fmt.Errorf("loading user: %w", err)
		}
		_, _ = auth.CheckPassword(password, dummyHash)
		s.events.LogAuthEvent(ctx, model.EventLevelWarning, "Failed login attempt", auth.Anonymous,
			map[string]any{"username": username, "reason": "unknown user"})
		return store.User{}, model.ErrInvalidCredentials
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("stored password hash is unreadable", "user_id", user.ID, "error", err)
		return store.User{}, model.ErrInvalidCredentials
	}
	if !valid {
		s.events.LogAuthEvent(ctx, model.EventLevelWarning, "Failed login attempt", auth.Anonymous,
			map[string]any{"username": username, "reason": "wrong password"})
		return store.User{}, model.ErrInvalidCredentials
	}

	var newHash string
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err = auth.HashPassword(password); err != nil {
			slog.Error("rehashing password", "user_id", user.ID, "error", err)
			newHash = ""
		}
	}

	loginAt := now()
	err = s.store.InTx(ctx, func(q *store.Queries) error {
		if err := q.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{
			LastLoginAt: sql.NullTime{Time: loginAt, Valid: true},
			ID:          user.ID,
		}); err != nil {
			return fmt.Errorf("updating last login: %w", err)
		}
		if newHash != "" {
			if err := q.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				ID:           user.ID,
			}); err != nil {
				return fmt.Errorf("updating password hash: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return store.User{}, err
	}
	user.LastLoginAt = sql.NullTime{Time: loginAt, Valid: true}
	if newHash != "" {
		user.PasswordHash = newHash
	}

	s.events.LogAuthEvent(ctx, model.EventLevelInfo, "User logged in", IdentityOf(user), nil)
	return user, nil
}

// GetUser returns the user with id, or a NotFound error.
func (s *AccountService) GetUser(ctx context.Context, id int64) (store.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return store.User{}, notFound(err, "User")
	}
	return user, nil
}

// LogLogout records a logout for id.
func (s *AccountService) LogLogout(ctx context.Context, id auth.Identity) {
	s.events.LogAuthEvent(ctx, model.EventLevelInfo, "User logged out", id, nil)
}

// IdentityOf returns the identity of user.
func IdentityOf(user store.User) auth.Identity {
	return auth.Identity{UserID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin}
}
