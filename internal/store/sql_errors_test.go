package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/models"
)

func newDBFromSQL(t *testing.T, format sq.PlaceholderFormat, classifier ErrorClassificator) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &DB{
		DB:                 conn,
		builder:            sq.StatementBuilder.PlaceholderFormat(format),
		errorClassificator: classifier,
		logger:             logger.Nop(),
	}, mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func TestPostgresErrorClassifier(t *testing.T) {
	c := NewPostgresErrorClassifier()

	assert.ErrorIs(t, c.Classify(pgError(pgerrcode.UniqueViolation)), ErrAlreadyExists)
	assert.ErrorIs(t, c.Classify(pgError(pgerrcode.ForeignKeyViolation)), ErrReferenceNotFound)

	other := pgError(pgerrcode.SerializationFailure)
	assert.Same(t, other, c.Classify(other))

	plain := errors.New("boom")
	assert.Same(t, plain, c.Classify(plain))
}

func TestSQLiteErrorClassifier(t *testing.T) {
	c := NewSQLiteErrorClassifier()

	unique := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}
	assert.ErrorIs(t, c.Classify(unique), ErrAlreadyExists)

	fk := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}
	assert.ErrorIs(t, c.Classify(fk), ErrReferenceNotFound)

	busy := sqlite3.Error{Code: sqlite3.ErrBusy}
	assert.Equal(t, busy, c.Classify(busy))
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "a.db?"+sqliteParams, sqliteDSN("a.db"))
	assert.Equal(t, "file:a.db?cache=shared&"+sqliteParams, sqliteDSN("file:a.db?cache=shared"))
}

func TestCatalogRepository_Postgres(t *testing.T) {
	db, mock := newDBFromSQL(t, sq.Dollar, NewPostgresErrorClassifier())
	repo := NewCatalogRepository(db, logger.Nop())

	mock.ExpectQuery(`INSERT INTO catalog_entries \(name\) VALUES \(\$1\) RETURNING id`).
		WithArgs("Milch").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	entry, err := repo.CreateCatalogEntry(testContext(), "Milch")
	require.NoError(t, err)
	assert.Equal(t, models.CatalogEntry{ID: 7, Name: "Milch"}, entry)

	mock.ExpectQuery(`INSERT INTO catalog_entries`).
		WithArgs("Milch").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err = repo.CreateCatalogEntry(testContext(), "Milch")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_PostgresMissingList(t *testing.T) {
	db, mock := newDBFromSQL(t, sq.Dollar, NewPostgresErrorClassifier())
	repo := NewItemRepository(db, logger.Nop())

	mock.ExpectQuery(`INSERT INTO items`).
		WithArgs(int64(3), "Milch", "", false).
		WillReturnError(pgError(pgerrcode.ForeignKeyViolation))

	_, err := repo.CreateItem(testContext(), 3, models.CreateItemRequest{Name: "Milch"})
	assert.ErrorIs(t, err, ErrListNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRepository_PostgresGetLists(t *testing.T) {
	db, mock := newDBFromSQL(t, sq.Dollar, NewPostgresErrorClassifier())
	repo := NewListRepository(db, logger.Nop())

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, label, created_at FROM lists ORDER BY created_at DESC, id DESC`).
		WillReturnRows(sqlmock.NewRows(listColumns).AddRow(1, "Wochenmarkt", created))

	lists, err := repo.GetLists(testContext())
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "Wochenmarkt", lists[0].Label)

	mock.ExpectQuery(`SELECT id, label, created_at FROM lists`).WillReturnError(sql.ErrConnDone)

	_, err = repo.GetLists(testContext())
	assert.ErrorIs(t, err, ErrExecutingQuery)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLocalCatalog_ReplaceRollsBackOnFailure(t *testing.T) {
	db, mock := newDBFromSQL(t, sq.Question, NewSQLiteErrorClassifier())
	repo := NewLocalCatalogRepository(db, logger.Nop())

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM catalog_entries`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`INSERT OR REPLACE INTO catalog_entries`).
		WithArgs(int64(1), "Milch").
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err := repo.ReplaceCatalog(testContext(), []models.CatalogEntry{{ID: 1, Name: "Milch"}})
	assert.ErrorIs(t, err, ErrExecutingStatement)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLocalCatalog_ReplaceBeginFailure(t *testing.T) {
	db, mock := newDBFromSQL(t, sq.Question, NewSQLiteErrorClassifier())
	repo := NewLocalCatalogRepository(db, logger.Nop())

	mock.ExpectBegin().WillReturnError(errors.New("database is locked"))

	err := repo.ReplaceCatalog(testContext(), nil)
	assert.ErrorIs(t, err, ErrBeginningTransaction)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMutationQueue_CountScanFailure(t *testing.T) {
	db, mock := newDBFromSQL(t, sq.Question, NewSQLiteErrorClassifier())
	queue := NewMutationQueue(db, logger.Nop())

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM mutation_queue`).WillReturnError(sql.ErrConnDone)

	_, err := queue.Count(testContext())
	assert.ErrorIs(t, err, ErrScanningRow)
	require.NoError(t, mock.ExpectationsWereMet())
}
