package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/utils"
	"github.com/MKhiriev/go-list-keeper/models"
)

type mutationQueue struct {
	*DB
	logger *logger.Logger
}

// NewMutationQueue constructs the sqlite-backed [MutationQueue]. The
// AUTOINCREMENT sequence key never reuses a value, so sequence ids keep
// growing even after the queue was emptied.
func NewMutationQueue(db *DB, logger *logger.Logger) MutationQueue {
	return &mutationQueue{
		DB:     db,
		logger: logger,
	}
}

func (q *mutationQueue) Enqueue(ctx context.Context, op models.QueuedOperation) (models.QueuedOperation, error) {
	stored, err := q.enqueue(ctx, q.DB.DB, op)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "mutationQueue.Enqueue").
			Str("method", op.Method).
			Str("path", op.Path).
			Msg("failed to enqueue operation")
		return models.QueuedOperation{}, err
	}
	return stored, nil
}

// enqueue assigns the idempotency key and enqueue time when missing and
// appends op.
func (db *DB) enqueue(ctx context.Context, q execer, op models.QueuedOperation) (models.QueuedOperation, error) {
	if op.IdempotencyKey == "" {
		op.IdempotencyKey = utils.NewID()
	}
	if op.EnqueuedAt.IsZero() {
		op.EnqueuedAt = time.Now().UTC()
	}

	var body any
	if len(op.Body) > 0 {
		body = []byte(op.Body)
	}

	res, err := db.exec(ctx, q, db.builder.Insert(tableQueue).
		Columns(queueColumns[1:]...).
		Values(string(op.Kind), op.Method, op.Path, body, op.LocalID,
			op.IdempotencyKey, op.Attempts, op.LastError, op.EnqueuedAt))
	if err != nil {
		return models.QueuedOperation{}, err
	}

	if op.SequenceID, err = res.LastInsertId(); err != nil {
		return models.QueuedOperation{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return op, nil
}

func (q *mutationQueue) PeekAll(ctx context.Context) ([]models.QueuedOperation, error) {
	log := logger.FromContext(ctx)

	rows, err := q.query(ctx, q.DB.DB, q.builder.Select(queueColumns...).From(tableQueue).OrderBy("sequence_id"))
	if err != nil {
		log.Err(err).Str("func", "mutationQueue.PeekAll").Msg("failed to query queue")
		return nil, err
	}

	ops, err := collect(rows, func(row rowScanner) (models.QueuedOperation, error) {
		return scanOperation(row)
	})
	if err != nil {
		log.Err(err).Str("func", "mutationQueue.PeekAll").Msg("failed to scan queue")
		return nil, err
	}
	return ops, nil
}

func (q *mutationQueue) Remove(ctx context.Context, sequenceID int64) error {
	if _, err := q.exec(ctx, q.DB.DB, q.builder.Delete(tableQueue).Where(sq.Eq{"sequence_id": sequenceID})); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "mutationQueue.Remove").
			Int64("sequence_id", sequenceID).
			Msg("failed to remove queue entry")
		return err
	}
	return nil
}

func (q *mutationQueue) Clear(ctx context.Context) error {
	if _, err := q.exec(ctx, q.DB.DB, q.builder.Delete(tableQueue)); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "mutationQueue.Clear").Msg("failed to clear queue")
		return err
	}
	return nil
}

func (q *mutationQueue) Count(ctx context.Context) (int, error) {
	n, err := q.count(ctx, q.DB.DB, q.builder.Select("COUNT(*)").From(tableQueue))
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "mutationQueue.Count").Msg("failed to count queue")
		return 0, err
	}
	return n, nil
}

func (db *DB) count(ctx context.Context, q execer, b sq.SelectBuilder) (int, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var n int
	if err = q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return n, nil
}

func (q *mutationQueue) RecordFailure(ctx context.Context, sequenceID int64, reason string) (int, error) {
	log := logger.FromContext(ctx)

	var attempts int
	err := q.inTx(ctx, "mutationQueue.RecordFailure", func(tx *sql.Tx) error {
		_, err := q.exec(ctx, tx, q.builder.Update(tableQueue).
			Set("attempts", sq.Expr("attempts + 1")).
			Set("last_error", reason).
			Where(sq.Eq{"sequence_id": sequenceID}))
		if err != nil {
			return err
		}

		query, args, err := q.builder.Select("attempts").From(tableQueue).Where(sq.Eq{"sequence_id": sequenceID}).ToSql()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		err = tx.QueryRowContext(ctx, query, args...).Scan(&attempts)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "mutationQueue.RecordFailure").
			Int64("sequence_id", sequenceID).
			Msg("failed to record replay failure")
		return 0, err
	}

	return attempts, nil
}

func (q *mutationQueue) DeadLetter(ctx context.Context, sequenceID int64, reason string) (int, error) {
	log := logger.FromContext(ctx)

	moved := 0
	err := q.inTx(ctx, "mutationQueue.DeadLetter", func(tx *sql.Tx) error {
		rows, err := q.query(ctx, tx, q.builder.Select(queueColumns...).From(tableQueue).Where(sq.Eq{"sequence_id": sequenceID}))
		if err != nil {
			return err
		}
		ops, err := collect(rows, func(row rowScanner) (models.QueuedOperation, error) { return scanOperation(row) })
		if err != nil || len(ops) == 0 {
			return err
		}

		op := ops[0]
		op.LastError = reason
		if op.Kind == models.OperationCreateList {
			// item creations under a list that will never exist
			rows, err = q.query(ctx, tx, q.builder.Select(queueColumns...).From(tableQueue).
				Where(sq.Eq{"kind": string(models.OperationCreateItem), "path": models.ItemsPath(op.LocalID)}).
				OrderBy("sequence_id"))
			if err != nil {
				return err
			}
			dependents, err := collect(rows, func(row rowScanner) (models.QueuedOperation, error) { return scanOperation(row) })
			if err != nil {
				return err
			}
			for i := range dependents {
				dependents[i].LastError = fmt.Sprintf("list creation %d was dead-lettered", sequenceID)
			}
			ops = append([]models.QueuedOperation{op}, dependents...)
		} else {
			ops[0] = op
		}

		failedAt := time.Now().UTC()
		insert := q.builder.Insert(tableDeadLetters).Columns(append(queueColumns, "failed_at")...)
		ids := make([]int64, 0, len(ops))
		for _, o := range ops {
			var body any
			if len(o.Body) > 0 {
				body = []byte(o.Body)
			}
			insert = insert.Values(o.SequenceID, string(o.Kind), o.Method, o.Path, body, o.LocalID,
				o.IdempotencyKey, o.Attempts, o.LastError, o.EnqueuedAt, failedAt)
			ids = append(ids, o.SequenceID)
		}

		if _, err = q.exec(ctx, tx, insert); err != nil {
			return err
		}
		if _, err = q.exec(ctx, tx, q.builder.Delete(tableQueue).Where(sq.Eq{"sequence_id": ids})); err != nil {
			return err
		}

		moved = len(ops)
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "mutationQueue.DeadLetter").
			Int64("sequence_id", sequenceID).
			Msg("failed to move operation to dead letters")
		return 0, err
	}

	return moved, nil
}

func (q *mutationQueue) DeadLetters(ctx context.Context) ([]models.DeadLetter, error) {
	log := logger.FromContext(ctx)

	rows, err := q.query(ctx, q.DB.DB, q.builder.Select(append(queueColumns, "failed_at")...).
		From(tableDeadLetters).
		OrderBy("sequence_id"))
	if err != nil {
		log.Err(err).Str("func", "mutationQueue.DeadLetters").Msg("failed to query dead letters")
		return nil, err
	}

	letters, err := collect(rows, func(row rowScanner) (models.DeadLetter, error) {
		var failedAt time.Time
		op, err := scanOperation(row, &failedAt)
		return models.DeadLetter{QueuedOperation: op, FailedAt: failedAt}, err
	})
	if err != nil {
		log.Err(err).Str("func", "mutationQueue.DeadLetters").Msg("failed to scan dead letters")
		return nil, err
	}
	return letters, nil
}
