package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/models"
)

type localReconciler struct {
	*DB
	logger *logger.Logger
}

// NewLocalReconciler constructs the [Reconciler] of the client store.
//
// The engine keeps updates and deletions of pending entities out of the
// queue, so in practice only item creations under a pending list carry a
// placeholder id. Confirmation still rewrites every queued path naming the
// placeholder.
func NewLocalReconciler(db *DB, logger *logger.Logger) Reconciler {
	return &localReconciler{
		DB:     db,
		logger: logger,
	}
}

func (r *localReconciler) queued(ctx context.Context, tx *sql.Tx, sequenceID int64) (bool, error) {
	n, err := r.count(ctx, tx, r.builder.Select("COUNT(*)").From(tableQueue).Where(sq.Eq{"sequence_id": sequenceID}))
	return n > 0, err
}

func (r *localReconciler) removeEntry(ctx context.Context, tx *sql.Tx, sequenceID int64) error {
	_, err := r.exec(ctx, tx, r.builder.Delete(tableQueue).Where(sq.Eq{"sequence_id": sequenceID}))
	return err
}

func (r *localReconciler) ConfirmListCreation(ctx context.Context, sequenceID, placeholderID int64, list models.List) error {
	log := logger.FromContext(ctx).With().
		Str("func", "localReconciler.ConfirmListCreation").
		Int64("placeholder_id", placeholderID).
		Int64("list_id", list.ID).
		Logger()

	err := r.inTx(ctx, "localReconciler.ConfirmListCreation", func(tx *sql.Tx) error {
		stillQueued, err := r.queued(ctx, tx, sequenceID)
		if err != nil {
			return err
		}

		if !stillQueued {
			// deleted locally while the creation was in flight
			log.Info().Msg("pending list retracted during replay, queueing deletion of the confirmed list")
			_, err = r.enqueue(ctx, tx, models.NewDeleteListOperation(list.ID))
			return err
		}

		n, err := r.count(ctx, tx, r.builder.Select("COUNT(*)").From(tableLists).Where(sq.Eq{"id": placeholderID}))
		if err != nil {
			return err
		}

		if n > 0 {
			if _, err = r.exec(ctx, tx, r.builder.Delete(tableLists).Where(sq.Eq{"id": placeholderID})); err != nil {
				return err
			}
			if _, err = r.exec(ctx, tx, r.builder.Insert(tableLists).Options("OR REPLACE").
				Columns(listColumns...).
				Values(list.ID, list.Label, list.CreatedAt.UTC())); err != nil {
				return err
			}
		}

		if _, err = r.exec(ctx, tx, r.builder.Update(tableItems).
			Set("list_id", list.ID).
			Where(sq.Eq{"list_id": placeholderID})); err != nil {
			return err
		}

		if _, err = r.exec(ctx, tx, r.builder.Update(tableQueue).
			Set("path", models.ItemsPath(list.ID)).
			Where(sq.Eq{"path": models.ItemsPath(placeholderID)})); err != nil {
			return err
		}

		if _, err = r.exec(ctx, tx, r.builder.Update(tableQueue).
			Set("path", models.ListPath(list.ID)).
			Set("local_id", list.ID).
			Where(sq.Eq{"path": models.ListPath(placeholderID)})); err != nil {
			return err
		}

		return r.removeEntry(ctx, tx, sequenceID)
	})
	if err != nil {
		log.Err(err).Msg("failed to confirm list creation")
		return err
	}

	return nil
}

func (r *localReconciler) ConfirmItemCreation(ctx context.Context, sequenceID, placeholderID int64, item models.Item) (models.Item, bool, error) {
	log := logger.FromContext(ctx).With().
		Str("func", "localReconciler.ConfirmItemCreation").
		Int64("placeholder_id", placeholderID).
		Int64("item_id", item.ID).
		Logger()

	var (
		result = item
		found  bool
	)
	err := r.inTx(ctx, "localReconciler.ConfirmItemCreation", func(tx *sql.Tx) error {
		stillQueued, err := r.queued(ctx, tx, sequenceID)
		if err != nil {
			return err
		}

		if !stillQueued {
			log.Info().Msg("pending item retracted during replay, queueing deletion of the confirmed item")
			_, err = r.enqueue(ctx, tx, models.NewDeleteItemOperation(item.ID))
			return err
		}

		if err = r.removeEntry(ctx, tx, sequenceID); err != nil {
			return err
		}

		if _, err = r.exec(ctx, tx, r.builder.Update(tableQueue).
			Set("path", models.ItemPath(item.ID)).
			Set("local_id", item.ID).
			Where(sq.Eq{"path": models.ItemPath(placeholderID)})); err != nil {
			return err
		}

		local, ok, err := r.getItem(ctx, tx, placeholderID)
		if err != nil || !ok {
			// removed by a cascade, the queued list deletion covers the server side
			return err
		}

		if _, err = r.exec(ctx, tx, r.builder.Delete(tableItems).Where(sq.Eq{"id": placeholderID})); err != nil {
			return err
		}

		// local edits made while pending win over the confirmed values
		merged := item
		merged.Name, merged.Note, merged.Done = local.Name, local.Note, local.Done
		if err = r.putItem(ctx, tx, merged); err != nil {
			return err
		}

		if diff := models.Diff(item, merged); !diff.IsEmpty() {
			op, err := models.NewUpdateItemOperation(item.ID, diff)
			if err != nil {
				return fmt.Errorf("error encoding item update: %w", err)
			}
			if _, err = r.enqueue(ctx, tx, op); err != nil {
				return err
			}
			log.Debug().Msg("queued local edits of the pending item")
		}

		result, found = merged, true
		return nil
	})
	if err != nil {
		log.Err(err).Msg("failed to confirm item creation")
		return models.Item{}, false, err
	}

	return result, found, nil
}

func (r *localReconciler) RetractPendingList(ctx context.Context, placeholderID int64) error {
	err := r.inTx(ctx, "localReconciler.RetractPendingList", func(tx *sql.Tx) error {
		if _, err := r.exec(ctx, tx, r.builder.Delete(tableQueue).Where(sq.Or{
			sq.Eq{"kind": string(models.OperationCreateList), "local_id": placeholderID},
			sq.Eq{"kind": string(models.OperationCreateItem), "path": models.ItemsPath(placeholderID)},
		})); err != nil {
			return err
		}

		if _, err := r.exec(ctx, tx, r.builder.Delete(tableItems).Where(sq.Eq{"list_id": placeholderID})); err != nil {
			return err
		}

		_, err := r.exec(ctx, tx, r.builder.Delete(tableLists).Where(sq.Eq{"id": placeholderID}))
		return err
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localReconciler.RetractPendingList").
			Int64("placeholder_id", placeholderID).
			Msg("failed to retract pending list")
		return err
	}
	return nil
}

func (r *localReconciler) RetractPendingItem(ctx context.Context, placeholderID int64) error {
	err := r.inTx(ctx, "localReconciler.RetractPendingItem", func(tx *sql.Tx) error {
		if _, err := r.exec(ctx, tx, r.builder.Delete(tableQueue).
			Where(sq.Eq{"kind": string(models.OperationCreateItem), "local_id": placeholderID})); err != nil {
			return err
		}

		_, err := r.exec(ctx, tx, r.builder.Delete(tableItems).Where(sq.Eq{"id": placeholderID}))
		return err
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localReconciler.RetractPendingItem").
			Int64("placeholder_id", placeholderID).
			Msg("failed to retract pending item")
		return err
	}
	return nil
}

func (r *localReconciler) MinLocalID(ctx context.Context) (int64, error) {
	var minID sql.NullInt64
	if err := r.QueryRowContext(ctx, minLocalID).Scan(&minID); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "localReconciler.MinLocalID").Msg("failed to read minimal local id")
		return 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return minID.Int64, nil
}
