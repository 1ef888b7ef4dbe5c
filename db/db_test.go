package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"contractors/db"
	"contractors/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newMockStorage(t *testing.T) (*db.Storage, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return db.NewStorage(sqlx.NewDb(mockDB, "postgres")), mock
}

var created = time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)

func expectLoad(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT id, data FROM contractors`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).
			AddRow("ctr_1", []byte(`{"id":"ctr_1","contractorName":"Roe Electric","tierLevel":"Tier 1","status":"Active","regionsCovered":["North"]}`)))
	mock.ExpectQuery(`FROM packages`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "name", "trade_category", "region", "allocation_type", "status"}).
			AddRow("pkg_1", created, "Lobby", "Electrical", "North", "Direct Award", "Open"))
	mock.ExpectQuery(`FROM offers`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "package_id", "contractor_id", "sent_at", "expires_at", "status"}).
			AddRow("offer_1", "pkg_1", "ctr_1", created, created.Add(36*time.Hour), "Sent"))
	mock.ExpectQuery(`FROM projects`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "contractor_id", "project_name", "completed_at", "rating", "parts", "status"}).
			AddRow("prj_1", "ctr_1", "Rewire", created, 88.5, []byte(`{"quality":28,"timeliness":18,"communication":14,"compliance":13.5,"clientSatisfaction":15}`), "Completed"))
	mock.ExpectQuery(`SELECT key, value FROM settings`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).AddRow("createdAt", "2026-01-01T00:00:00Z"))
}

func TestStorage_Load(t *testing.T) {
	store, mock := newMockStorage(t)
	expectLoad(mock)

	ds, err := store.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.Contractors, 1)
	require.Equal(t, models.Tier1, ds.Contractors[0].TierLevel)
	require.Equal(t, []string{"North"}, ds.Contractors[0].RegionsCovered)
	require.Equal(t, models.DirectAward, ds.Packages[0].AllocationType)
	require.Equal(t, models.OfferSent, ds.Offers[0].Status)
	require.Equal(t, 13.5, ds.Projects[0].Parts.Compliance)
	require.Equal(t, "2026-01-01T00:00:00Z", ds.Settings["createdAt"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_Update(t *testing.T) {
	store, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	expectLoad(mock)
	mock.ExpectExec(`INSERT INTO contractors`).
		WithArgs("ctr_1", 0, sqlmock.AnyArg(), sqlmock.AnyArg(), "Tier 1", "Suspended", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO packages`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO offers`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO projects`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO settings`).WithArgs("createdAt", "2026-01-01T00:00:00Z").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	ds, err := store.Update(context.Background(), func(ds *models.Dataset) error {
		ds.Contractors[0].Status = models.StatusSuspended
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusSuspended, ds.Contractors[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_UpdateRollsBackOnError(t *testing.T) {
	store, mock := newMockStorage(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
	expectLoad(mock)
	mock.ExpectRollback()

	_, err := store.Update(context.Background(), func(ds *models.Dataset) error { return boom })

	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_LoadError(t *testing.T) {
	store, mock := newMockStorage(t)
	mock.ExpectQuery(`SELECT id, data FROM contractors`).WillReturnError(errors.New("connection refused"))

	_, err := store.Load(context.Background())

	require.Error(t, err)
	require.Contains(t, err.Error(), "load contractors")
}
