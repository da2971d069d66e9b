package store

import (
	"database/sql"
	"fmt"

	"github.com/MKhiriev/go-list-keeper/models"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanList(row rowScanner) (models.List, error) {
	var l models.List
	err := row.Scan(&l.ID, &l.Label, &l.CreatedAt)
	return l, err
}

func scanItem(row rowScanner) (models.Item, error) {
	var i models.Item
	err := row.Scan(&i.ID, &i.ListID, &i.Name, &i.Note, &i.Done)
	return i, err
}

func scanCatalogEntry(row rowScanner) (models.CatalogEntry, error) {
	var e models.CatalogEntry
	err := row.Scan(&e.ID, &e.Name)
	return e, err
}

func scanOperation(row rowScanner, extra ...any) (models.QueuedOperation, error) {
	var (
		op   models.QueuedOperation
		kind string
		body []byte
	)
	dest := append([]any{
		&op.SequenceID, &kind, &op.Method, &op.Path, &body, &op.LocalID,
		&op.IdempotencyKey, &op.Attempts, &op.LastError, &op.EnqueuedAt,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		return models.QueuedOperation{}, err
	}

	op.Kind = models.OperationKind(kind)
	if len(body) > 0 {
		op.Body = body
	}
	return op, nil
}

// collect drains rows through scan, wrapping failures in the store sentinels.
func collect[T any](rows *sql.Rows, scan func(rowScanner) (T, error)) ([]T, error) {
	defer rows.Close()

	result := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		result = append(result, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return result, nil
}
