package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrAlreadyExists is returned when an insert violates a unique constraint.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrReferenceNotFound is returned when an insert references a parent row
	// that does not exist.
	ErrReferenceNotFound = errors.New("referenced record not found")

	// ErrListNotFound is returned when a list id matches no row.
	ErrListNotFound = errors.New("list not found")

	// ErrItemNotFound is returned when an item id matches no row.
	ErrItemNotFound = errors.New("item not found")

	// ErrCatalogEntryNotFound is returned when a catalog entry id matches no row.
	ErrCatalogEntryNotFound = errors.New("catalog entry not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning or iterating a multi-row
	// result fails.
	ErrScanningRows = errors.New("failed to scan rows")
)
