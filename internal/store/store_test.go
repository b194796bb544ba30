package store

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp("", "oblog-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}

	return db, cleanup
}

func createTestUser(t *testing.T, q *Queries, username string, admin bool) int64 {
	t.Helper()
	id, err := q.CreateUser(context.Background(), CreateUserParams{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashed-password",
		IsAdmin:      admin,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", username, err)
	}
	return id
}

func createTestArticle(t *testing.T, q *Queries, userID int64, title, status string, categoryID sql.NullInt64, at time.Time) int64 {
	t.Helper()
	id, err := q.CreateArticle(context.Background(), CreateArticleParams{
		Title:      title,
		Slug:       title,
		Content:    "content of " + title,
		Status:     status,
		UserID:     userID,
		CategoryID: categoryID,
		CreatedAt:  at,
		UpdatedAt:  at,
	})
	if err != nil {
		t.Fatalf("CreateArticle(%s): %v", title, err)
	}
	return id
}

func TestCreateUser(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	id := createTestUser(t, q, "alice", true)

	user, err := q.GetUserByID(ctx, id)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if user.Username != "alice" || user.Email != "alice@example.com" || !user.IsAdmin {
		t.Errorf("unexpected user: %+v", user)
	}
	if user.LastLoginAt.Valid {
		t.Error("LastLoginAt should be NULL for a new user")
	}

	byName, err := q.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if byName.ID != id {
		t.Errorf("GetUserByUsername ID = %d, want %d", byName.ID, id)
	}

	count, err := q.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 1 {
		t.Errorf("CountUsers = %d, want 1", count)
	}
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	createTestUser(t, q, "alice", false)

	_, err := q.CreateUser(ctx, CreateUserParams{
		Username:     "alice",
		Email:        "other@example.com",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	})
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
	if field := UniqueViolationField(err); field != "username" {
		t.Errorf("UniqueViolationField = %q, want username", field)
	}

	_, err = q.CreateUser(ctx, CreateUserParams{
		Username:     "bob",
		Email:        "alice@example.com",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	})
	if field := UniqueViolationField(err); field != "email" {
		t.Errorf("UniqueViolationField = %q, want email (err %v)", field, err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	_, err := New(db).GetUserByID(context.Background(), 99)
	if !IsNotFound(err) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestUpdateUserLastLogin(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	id := createTestUser(t, q, "alice", false)

	now := time.Now().UTC().Truncate(time.Second)
	if err := q.UpdateUserLastLogin(ctx, UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: now, Valid: true},
		ID:          id,
	}); err != nil {
		t.Fatalf("UpdateUserLastLogin: %v", err)
	}

	user, err := q.GetUserByID(ctx, id)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if !user.LastLoginAt.Valid || !user.LastLoginAt.Time.Equal(now) {
		t.Errorf("LastLoginAt = %v, want %v", user.LastLoginAt, now)
	}
}

func TestListArticles_FilterAndOrder(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	uid := createTestUser(t, q, "admin", true)

	base := time.Now().UTC().Truncate(time.Second)
	createTestArticle(t, q, uid, "first", "published", sql.NullInt64{}, base)
	createTestArticle(t, q, uid, "second", "draft", sql.NullInt64{}, base.Add(time.Minute))
	third := createTestArticle(t, q, uid, "third", "published", sql.NullInt64{}, base.Add(2*time.Minute))

	all, err := q.ListArticles(ctx, ListArticlesParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].ID != third || all[0].AuthorUsername != "admin" {
		t.Errorf("first row = %+v, want newest article by admin", all[0])
	}

	published := sql.NullString{String: "published", Valid: true}
	rows, err := q.ListArticles(ctx, ListArticlesParams{Status: published, Limit: 10})
	if err != nil {
		t.Fatalf("ListArticles published: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("published len = %d, want 2", len(rows))
	}

	count, err := q.CountArticles(ctx, published)
	if err != nil {
		t.Fatalf("CountArticles: %v", err)
	}
	if count != 2 {
		t.Errorf("CountArticles = %d, want 2", count)
	}

	page, err := q.ListArticles(ctx, ListArticlesParams{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("ListArticles page: %v", err)
	}
	if len(page) != 1 || page[0].Title != "second" {
		t.Errorf("page 2 = %+v, want second", page)
	}
}

func TestDeleteArticle_CascadesComments(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	uid := createTestUser(t, q, "admin", true)
	aid := createTestArticle(t, q, uid, "post", "published", sql.NullInt64{}, time.Now().UTC())

	if _, err := q.CreateComment(ctx, CreateCommentParams{
		Content:   "hello",
		Status:    "approved",
		UserID:    uid,
		ArticleID: aid,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	if err := q.DeleteArticle(ctx, aid); err != nil {
		t.Fatalf("DeleteArticle: %v", err)
	}

	count, err := q.CountCommentsForArticle(ctx, aid)
	if err != nil {
		t.Fatalf("CountCommentsForArticle: %v", err)
	}
	if count != 0 {
		t.Errorf("comments left after delete = %d, want 0", count)
	}
}

func TestDeleteCategory_RestrictedByArticles(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	uid := createTestUser(t, q, "admin", true)

	cid, err := q.CreateCategory(ctx, CreateCategoryParams{
		Name:      "Go",
		Slug:      "go",
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	createTestArticle(t, q, uid, "post", "published", sql.NullInt64{Int64: cid, Valid: true}, time.Now().UTC())

	err = q.DeleteCategory(ctx, cid)
	if !IsForeignKeyViolation(err) {
		t.Fatalf("expected foreign key violation, got %v", err)
	}

	rows, err := q.ListCategoriesWithArticleCount(ctx)
	if err != nil {
		t.Fatalf("ListCategoriesWithArticleCount: %v", err)
	}
	if len(rows) != 1 || rows[0].ArticleCount != 1 {
		t.Errorf("categories = %+v, want one with article_count 1", rows)
	}
}

func TestListComments_Filters(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	uid := createTestUser(t, q, "admin", true)
	a1 := createTestArticle(t, q, uid, "one", "published", sql.NullInt64{}, time.Now().UTC())
	a2 := createTestArticle(t, q, uid, "two", "published", sql.NullInt64{}, time.Now().UTC())

	for _, c := range []struct {
		article int64
		status  string
	}{{a1, "approved"}, {a1, "pending"}, {a2, "approved"}} {
		if _, err := q.CreateComment(ctx, CreateCommentParams{
			Content:   "c",
			Status:    c.status,
			UserID:    uid,
			ArticleID: c.article,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			t.Fatalf("CreateComment: %v", err)
		}
	}

	tests := []struct {
		name string
		arg  ListCommentsParams
		want int
	}{
		{"all", ListCommentsParams{}, 3},
		{"by article", ListCommentsParams{ArticleID: sql.NullInt64{Int64: a1, Valid: true}}, 2},
		{"by status", ListCommentsParams{Status: sql.NullString{String: "approved", Valid: true}}, 2},
		{"both", ListCommentsParams{
			ArticleID: sql.NullInt64{Int64: a1, Valid: true},
			Status:    sql.NullString{String: "pending", Valid: true},
		}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := q.ListComments(ctx, tt.arg)
			if err != nil {
				t.Fatalf("ListComments: %v", err)
			}
			if len(rows) != tt.want {
				t.Errorf("len = %d, want %d", len(rows), tt.want)
			}
		})
	}
}

func TestUpsertSetting(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	for _, v := range []string{"first", "second"} {
		if err := q.UpsertSetting(ctx, UpsertSettingParams{
			Key:       "site_title",
			Value:     v,
			UpdatedAt: time.Now().UTC(),
		}); err != nil {
			t.Fatalf("UpsertSetting: %v", err)
		}
	}

	s, err := q.GetSetting(ctx, "site_title")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if s.Value != "second" {
		t.Errorf("Value = %q, want second", s.Value)
	}
}

func TestSeed_KeepsExistingSettings(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	if err := q.UpsertSetting(ctx, UpsertSettingParams{
		Key:       "site_title",
		Value:     "Custom",
		UpdatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("UpsertSetting: %v", err)
	}

	if err := Seed(ctx, db); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	// second run is a no-op
	if err := Seed(ctx, db); err != nil {
		t.Fatalf("Seed again: %v", err)
	}

	settings, err := q.ListSettings(ctx)
	if err != nil {
		t.Fatalf("ListSettings: %v", err)
	}
	if len(settings) != len(DefaultSettings) {
		t.Errorf("len = %d, want %d", len(settings), len(DefaultSettings))
	}
	for _, s := range settings {
		if s.Key == "site_title" && s.Value != "Custom" {
			t.Errorf("site_title overwritten with %q", s.Value)
		}
	}
}

func TestInTx_RollsBackOnError(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	s := NewStore(db)

	err := s.InTx(ctx, func(q *Queries) error {
		createTestUser(t, q, "alice", false)
		_, err := q.CreateUser(ctx, CreateUserParams{
			Username:     "alice",
			Email:        "dup@example.com",
			PasswordHash: "x",
			CreatedAt:    time.Now().UTC(),
		})
		return err
	})
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}

	count, err := s.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 0 {
		t.Errorf("CountUsers = %d after rollback, want 0", count)
	}
}

func TestEvents_ListAndCount(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	uid := createTestUser(t, q, "alice", false)

	base := time.Now().UTC().Truncate(time.Second)
	events := []CreateEventParams{
		{Level: "info", Category: "auth", Message: "login", UserID: sql.NullInt64{Int64: uid, Valid: true}, Metadata: "{}", CreatedAt: base},
		{Level: "warning", Category: "auth", Message: "failed", Metadata: "{}", CreatedAt: base.Add(time.Second)},
		{Level: "info", Category: "article", Message: "created", Metadata: "{}", CreatedAt: base.Add(2 * time.Second)},
	}
	for _, e := range events {
		if err := q.CreateEvent(ctx, e); err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	rows, err := q.ListEvents(ctx, ListEventsParams{
		Category: sql.NullString{String: "auth", Valid: true},
		Limit:    10,
	})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	if rows[0].Message != "failed" || rows[0].Username.Valid {
		t.Errorf("newest auth event = %+v", rows[0])
	}
	if rows[1].Username.String != "alice" {
		t.Errorf("username = %q, want alice", rows[1].Username.String)
	}

	count, err := q.CountEvents(ctx, CountEventsParams{Level: sql.NullString{String: "info", Valid: true}})
	if err != nil {
		t.Fatalf("CountEvents: %v", err)
	}
	if count != 2 {
		t.Errorf("CountEvents = %d, want 2", count)
	}

	deleted, err := q.DeleteEventsBefore(ctx, base.Add(time.Second))
	if err != nil {
		t.Fatalf("DeleteEventsBefore: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
}
