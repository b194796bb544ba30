package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/store"
)

type fakeUsers map[int64]store.User

func (f fakeUsers) GetUser(_ context.Context, id int64) (store.User, error) {
	if id == 99 {
		return store.User{}, errors.New("database is locked")
	}
	u, ok := f[id]
	if !ok {
		return store.User{}, model.NewNotFoundError("User")
	}
	return u, nil
}

var testUsers = fakeUsers{
	1: {ID: 1, Username: "admin", IsAdmin: true},
	2: {ID: 2, Username: "user"},
}

// sessionRequest returns a request whose context carries a loaded session
// holding userID (0 means no user).
func sessionRequest(t *testing.T, sm *scs.SessionManager, userID int64) *http.Request {
	t.Helper()
	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	if userID != 0 {
		sm.Put(ctx, SessionKeyUserID, userID)
	}
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil).WithContext(ctx)
	req.RemoteAddr = "192.0.2.10:4321"
	req.Header.Set("User-Agent", "test-agent")
	return req
}

func TestLoadIdentity(t *testing.T) {
	tests := []struct {
		name   string
		userID int64
		want   auth.Identity
	}{
		{"anonymous", 0, auth.Anonymous},
		{"admin", 1, auth.Identity{UserID: 1, Username: "admin", IsAdmin: true}},
		{"user", 2, auth.Identity{UserID: 2, Username: "user"}},
		{"missing user", 42, auth.Anonymous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := scs.New()
			req := sessionRequest(t, sm, tt.userID)

			var got auth.Identity
			var info service.ClientInfo
			handler := LoadIdentity(sm, testUsers)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = GetIdentity(r)
				info = service.ClientInfoFrom(r.Context())
			}))
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("identity = %+v, want %+v", got, tt.want)
			}
			if info.IP != "192.0.2.10" || info.UserAgent != "test-agent" {
				t.Errorf("client info = %+v", info)
			}
			if tt.name == "missing user" && sm.Status(req.Context()) != scs.Destroyed {
				t.Error("session of a missing user should be destroyed")
			}
		})
	}
}

func TestLoadIdentityStoreError(t *testing.T) {
	sm := scs.New()
	req := sessionRequest(t, sm, 99)

	called := false
	handler := LoadIdentity(sm, testUsers)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Error("next handler should not run")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestIdentityFromContextDefault(t *testing.T) {
	if got := IdentityFromContext(context.Background()); got != auth.Anonymous {
		t.Errorf("got %+v, want anonymous", got)
	}
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	ctx := context.WithValue(context.Background(), ContextKeyIdentity, auth.Identity{UserID: 2, Username: "user"})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil).WithContext(ctx))
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", rec.Code)
	}
}

func TestWriteAPIError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAPIError(rec, http.StatusBadRequest, model.KindValidation, "Username is required", "username")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	want := `{"error":"Username is required","code":"validation_error","field":"username"}` + "\n"
	if rec.Body.String() != want {
		t.Errorf("body = %q, want %q", rec.Body.String(), want)
	}
}
