package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artemisia-corp/storefront/pkg/enums"
	redisclient "github.com/artemisia-corp/storefront/pkg/redis"
)

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis, *time.Time) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisclient.NewFromClient(redislib.NewClient(&redislib.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })

	manager, err := NewManager(client)
	require.NoError(t, err)

	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return now }
	return manager, mr, &now
}

func TestManagerCreateGetRevoke(t *testing.T) {
	manager, mr, _ := newTestManager(t)
	ctx := context.Background()

	created, err := manager.Create(ctx, Session{
		Token:    "upstream-token",
		UserID:   7,
		Username: "ana",
		Role:     enums.UserRoleSeller,
	}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, time.Hour, mr.TTL("art:session:"+created.ID))

	loaded, err := manager.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "upstream-token", loaded.BearerToken())
	assert.Equal(t, int64(7), loaded.UserID)
	assert.True(t, loaded.IsSeller())
	assert.Equal(t, created.ExpiresAt, loaded.ExpiresAt)

	require.NoError(t, manager.Revoke(ctx, created.ID))
	_, err = manager.Get(ctx, created.ID)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestManagerGetTreatsExpiredRecordAsMissing(t *testing.T) {
	manager, _, now := newTestManager(t)
	ctx := context.Background()

	created, err := manager.Create(ctx, Session{Token: "t", UserID: 1}, time.Minute)
	require.NoError(t, err)

	later := now.Add(2 * time.Minute)
	manager.now = func() time.Time { return later }

	_, err = manager.Get(ctx, created.ID)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestManagerCreateValidatesInput(t *testing.T) {
	manager, _, _ := newTestManager(t)
	ctx := context.Background()

	_, err := manager.Create(ctx, Session{}, time.Hour)
	assert.Error(t, err)

	_, err = manager.Create(ctx, Session{Token: "t"}, 0)
	assert.Error(t, err)

	_, err = manager.Get(ctx, "")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestManagerCreateRejectsIDCollision(t *testing.T) {
	manager, _, _ := newTestManager(t)
	manager.newID = func() string { return "fixed" }
	ctx := context.Background()

	_, err := manager.Create(ctx, Session{Token: "a"}, time.Hour)
	require.NoError(t, err)
	_, err = manager.Create(ctx, Session{Token: "b"}, time.Hour)
	assert.Error(t, err)
}

func TestNewManagerRequiresClient(t *testing.T) {
	_, err := NewManager(nil)
	assert.Error(t, err)
}
