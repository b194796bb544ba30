package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
)

// testDB creates a temporary test database with migrations applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "oblog-logging-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		_ = os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		_ = os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
		_ = os.Remove(dbPath + "-wal")
		_ = os.Remove(dbPath + "-shm")
	})
	return db
}

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func listEvents(t *testing.T, db *sql.DB) []store.ListEventsRow {
	t.Helper()
	events, err := store.New(db).ListEvents(context.Background(), store.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	return events
}

func TestEventLogHandler_Levels(t *testing.T) {
	tests := []struct {
		name      string
		log       func(l *slog.Logger)
		wantCount int
		wantLevel string
	}{
		{"error captured", func(l *slog.Logger) { l.Error("database connection failed", "host", "localhost") }, 1, model.EventLevelError},
		{"warn captured", func(l *slog.Logger) { l.Warn("slow query", "duration_ms", 5000) }, 1, model.EventLevelWarning},
		{"info skipped", func(l *slog.Logger) { l.Info("server started", "port", 8080) }, 0, ""},
		{"debug skipped", func(l *slog.Logger) { l.Debug("processing request") }, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testDB(t)
			tt.log(slog.New(NewEventLogHandler(discardHandler{}, db)))

			events := listEvents(t, db)
			if len(events) != tt.wantCount {
				t.Fatalf("expected %d events, got %d", tt.wantCount, len(events))
			}
			if tt.wantCount == 1 && events[0].Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", events[0].Level, tt.wantLevel)
			}
		})
	}
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, db, slog.LevelInfo))

	logger.Info("server started", "port", 8080)

	if events := listEvents(t, db); len(events) != 1 {
		t.Errorf("expected 1 event with INFO threshold, got %d", len(events))
	}
}

func TestEventLogHandler_CategoryInference(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"login attempt blocked", model.EventCategoryAuth},
		{"comment moderation failed", model.EventCategoryComment},
		{"category delete failed", model.EventCategoryCategory},
		{"article render failed", model.EventCategoryArticle},
		{"settings update failed", model.EventCategorySetting},
		{"unknown error occurred", model.EventCategorySystem},
	}

	db := testDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			_, _ = db.Exec("DELETE FROM events")
			logger.Error(tt.message)

			events := listEvents(t, db)
			if len(events) != 1 {
				t.Fatalf("expected 1 event, got %d", len(events))
			}
			if events[0].Category != tt.want {
				t.Errorf("Category = %q, want %q", events[0].Category, tt.want)
			}
		})
	}
}

func TestEventLogHandler_SpecialAttrs(t *testing.T) {
	db := testDB(t)

	uid, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	logger := slog.New(NewEventLogHandler(discardHandler{}, db)).With("component", "api")
	logger.Warn("something happened",
		AttrCategory, model.EventCategoryComment,
		AttrUserID, uid,
		AttrIP, "10.0.0.1",
		"path", "/api/comments",
	)

	events := listEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.Category != model.EventCategoryComment {
		t.Errorf("Category = %q, want comment", e.Category)
	}
	if !e.UserID.Valid || e.UserID.Int64 != uid {
		t.Errorf("UserID = %+v, want %d", e.UserID, uid)
	}
	if e.IpAddress != "10.0.0.1" {
		t.Errorf("IpAddress = %q", e.IpAddress)
	}

	var meta map[string]any
	if err := json.Unmarshal([]byte(e.Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v (%s)", err, e.Metadata)
	}
	if meta["path"] != "/api/comments" || meta["component"] != "api" {
		t.Errorf("metadata = %v", meta)
	}
	if _, ok := meta[AttrCategory]; ok {
		t.Error("category should not be duplicated in metadata")
	}
}
