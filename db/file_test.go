package db_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"contractors/db"
	"contractors/models"

	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadMissing(t *testing.T) {
	store := db.NewFileStore(t.TempDir())

	ds, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, ds.Contractors)
	require.NotEmpty(t, ds.Settings["createdAt"])
}

func TestFileStore_UpdateAndReload(t *testing.T) {
	dir := t.TempDir()
	store := db.NewFileStore(dir)
	ctx := context.Background()

	_, err := store.Update(ctx, func(ds *models.Dataset) error {
		ds.Contractors = append(ds.Contractors, models.Contractor{ID: "ctr_1", ContractorName: "Roe"})
		return nil
	})
	require.NoError(t, err)

	ds, err := db.NewFileStore(dir).Load(ctx)
	require.NoError(t, err)
	require.Len(t, ds.Contractors, 1)
	require.Equal(t, "Roe", ds.Contractors[0].ContractorName)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStore_FailedUpdateKeepsFile(t *testing.T) {
	dir := t.TempDir()
	store := db.NewFileStore(dir)
	ctx := context.Background()

	_, err := store.Update(ctx, func(ds *models.Dataset) error {
		ds.Packages = append(ds.Packages, models.Package{ID: "pkg_1"})
		return nil
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = store.Update(ctx, func(ds *models.Dataset) error {
		ds.Packages = nil
		return boom
	})
	require.ErrorIs(t, err, boom)

	ds, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, ds.Packages, 1)
}

func TestFileStore_CorruptFileLoadsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "admin-db.json"), []byte("{not json"), 0o644))

	ds, err := db.NewFileStore(dir).Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, ds.Contractors)
	require.NotNil(t, ds.Offers)
}
