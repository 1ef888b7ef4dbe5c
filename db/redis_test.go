package db_test

import (
	"context"
	"testing"

	"contractors/db"
	"contractors/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestRedisStore_LoadMissing(t *testing.T) {
	_, rdb := newRedis(t)

	ds, err := db.NewRedisStore(rdb, "").Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, ds.Contractors)
}

func TestRedisStore_UpdateAndLoad(t *testing.T) {
	mr, rdb := newRedis(t)
	store := db.NewRedisStore(rdb, "test:dataset")
	ctx := context.Background()

	_, err := store.Update(ctx, func(ds *models.Dataset) error {
		ds.Contractors = append(ds.Contractors, models.Contractor{ID: "ctr_1"})
		return nil
	})
	require.NoError(t, err)
	require.True(t, mr.Exists("test:dataset"))

	ds, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, ds.Contractors, 1)
}

func TestRedisStore_RetriesOnConflict(t *testing.T) {
	_, rdb := newRedis(t)
	ctx := context.Background()
	store := db.NewRedisStore(rdb, "test:dataset")
	other := db.NewRedisStore(rdb, "test:dataset")

	calls := 0
	ds, err := store.Update(ctx, func(ds *models.Dataset) error {
		calls++
		if calls == 1 {
			_, err := other.Update(ctx, func(ds *models.Dataset) error {
				ds.Packages = append(ds.Packages, models.Package{ID: "pkg_other"})
				return nil
			})
			require.NoError(t, err)
		}
		ds.Contractors = append(ds.Contractors, models.Contractor{ID: "ctr_1"})
		return nil
	})
	require.NoError(t, err)

	require.Equal(t, 2, calls)
	require.Len(t, ds.Packages, 1)
	require.Len(t, ds.Contractors, 1)
}
