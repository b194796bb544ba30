package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/model"
)

func raw(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	return m
}

func TestSettingValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"My Blog"`, "My Blog"},
		{`""`, ""},
		{`null`, ""},
		{`10`, "10"},
		{`true`, "true"},
		{`[1, 2]`, "[1,2]"},
		{`{"a": 1}`, `{"a":1}`},
	}
	for _, tt := range tests {
		got, err := SettingValue(json.RawMessage(tt.in))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %s", tt.in)
	}
}

func TestSettings_UpdateAndGet(t *testing.T) {
	svc, _ := testServices(t)
	ctx := context.Background()
	admin, _ := adminAndUser(t, svc)

	require.NoError(t, svc.Settings.Update(ctx, admin, raw(t, `{"site_title":"My Blog"}`)))

	got, err := svc.Settings.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"site_title": "My Blog"}, got)

	require.NoError(t, svc.Settings.Update(ctx, admin, raw(t, `{"site_title":"Renamed","per_page":20,"comments_open":false}`)))

	got, err = svc.Settings.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"site_title":    "Renamed",
		"per_page":      "20",
		"comments_open": "false",
	}, got)
}

func TestSettings_Rejected(t *testing.T) {
	svc, db := testServices(t)
	ctx := context.Background()
	admin, user := adminAndUser(t, svc)

	requireKind(t, svc.Settings.Update(ctx, user, raw(t, `{"a":"b"}`)), model.KindForbidden)
	requireKind(t, svc.Settings.Update(ctx, auth.Anonymous, raw(t, `{"a":"b"}`)), model.KindUnauthorized)

	longValue := `{"a":"ok","b":"` + strings.Repeat("v", MaxSettingValueLength+1) + `"}`
	requireKind(t, svc.Settings.Update(ctx, admin, raw(t, longValue)), model.KindValidation)
	requireKind(t, svc.Settings.Update(ctx, admin, raw(t, `{"":"x"}`)), model.KindValidation)

	assert.Equal(t, 0, countRows(t, db, "settings"), "invalid batches write nothing")
}
