package store

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-list-keeper/models"
)

// pendingOverlay is the effect of queued, not yet confirmed, updates and
// deletions. A remote fetch may predate them, so it is applied on top of
// every mirrored collection.
type pendingOverlay struct {
	deletedLists map[int64]struct{}
	deletedItems map[int64]struct{}
	itemUpdates  map[int64]models.ItemUpdate
}

func (o pendingOverlay) listDeleted(id int64) bool {
	_, ok := o.deletedLists[id]
	return ok
}

func (o pendingOverlay) itemDeleted(id int64) bool {
	_, ok := o.deletedItems[id]
	return ok
}

// apply returns item with the queued updates applied, in queue order.
func (o pendingOverlay) apply(item models.Item) models.Item {
	if u, ok := o.itemUpdates[item.ID]; ok {
		return u.Apply(item)
	}
	return item
}

func (db *DB) loadOverlay(ctx context.Context, q execer) (pendingOverlay, error) {
	overlay := pendingOverlay{
		deletedLists: make(map[int64]struct{}),
		deletedItems: make(map[int64]struct{}),
		itemUpdates:  make(map[int64]models.ItemUpdate),
	}

	rows, err := db.query(ctx, q, db.builder.
		Select("kind", "local_id", "body").
		From(tableQueue).
		Where(sq.Eq{"kind": []string{
			string(models.OperationDeleteList),
			string(models.OperationDeleteItem),
			string(models.OperationUpdateItem),
		}}).
		OrderBy("sequence_id"))
	if err != nil {
		return overlay, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			kind    string
			localID int64
			body    []byte
		)
		if err = rows.Scan(&kind, &localID, &body); err != nil {
			return overlay, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}

		switch models.OperationKind(kind) {
		case models.OperationDeleteList:
			overlay.deletedLists[localID] = struct{}{}
		case models.OperationDeleteItem:
			overlay.deletedItems[localID] = struct{}{}
		case models.OperationUpdateItem:
			var update models.ItemUpdate
			if err = json.Unmarshal(body, &update); err != nil {
				continue
			}
			overlay.itemUpdates[localID] = overlay.itemUpdates[localID].Merge(update)
		}
	}

	if err = rows.Err(); err != nil {
		return overlay, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return overlay, nil
}
