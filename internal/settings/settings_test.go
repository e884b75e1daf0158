package settings

import (
	"context"
	"testing"

	"shot-history-api/internal/db"
	"shot-history-api/internal/webhook"
	"shot-history-api/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	database, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.RunMigrations(database, migrations.FS))
	return &Service{Store: &SQLiteStore{DB: database}}
}

func TestGet_EmptyByDefault(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Settings{}, got)
}

func TestUpdate_TrimsAndPersists(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	saved, err := svc.Update(ctx, Settings{
		WebhookURL:       "  https://example.com/hook ",
		WebhookAuthToken: " tok ",
	})
	require.NoError(t, err)
	assert.Equal(t, Settings{WebhookURL: "https://example.com/hook", WebhookAuthToken: "tok"}, saved)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	_, err = svc.Update(ctx, Settings{})
	require.NoError(t, err)
	got, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, Settings{}, got)
}

func TestUpdate_RejectsNonHTTPURL(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Update(context.Background(), Settings{WebhookURL: "ftp://example.com"})
	assert.ErrorIs(t, err, ErrInvalidWebhookURL)
}

func TestWebhookSource(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.Update(ctx, Settings{WebhookURL: "https://example.com/hook", WebhookAuthToken: "tok"})
	require.NoError(t, err)

	cfg, err := svc.WebhookSource().Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, webhook.Config{URL: "https://example.com/hook", AuthToken: "tok"}, cfg)
}
