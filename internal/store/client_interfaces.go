package store

import (
	"context"

	"github.com/MKhiriev/go-list-keeper/models"
)

// LocalCatalogRepository mirrors the read-only article catalog.
type LocalCatalogRepository interface {
	// ReplaceCatalog atomically clears and repopulates the catalog.
	ReplaceCatalog(ctx context.Context, entries []models.CatalogEntry) error
	// GetCatalog returns every entry ordered by name.
	GetCatalog(ctx context.Context) ([]models.CatalogEntry, error)
}

// LocalListRepository mirrors shopping lists, confirmed and pending.
type LocalListRepository interface {
	// ReplaceLists mirrors a full remote fetch. Pending lists whose creation
	// is still queued survive, lists with a queued deletion are not
	// restored, and items of lists that disappeared are dropped.
	ReplaceLists(ctx context.Context, lists []models.List) error
	// PutList inserts or overwrites one list.
	PutList(ctx context.Context, list models.List) error
	// GetLists returns every list, newest first.
	GetLists(ctx context.Context) ([]models.List, error)
	// GetList looks one list up; ok is false when it is absent.
	GetList(ctx context.Context, id int64) (list models.List, ok bool, err error)
	// DeleteList removes a list and all its items in one transaction.
	// Deleting an absent list is not an error.
	DeleteList(ctx context.Context, id int64) error
}

// LocalItemRepository mirrors list items, secondary-indexed by list id.
type LocalItemRepository interface {
	// ReplaceItems mirrors a remote fetch of the items of one list,
	// overlaying queued item updates and deletions.
	ReplaceItems(ctx context.Context, listID int64, items []models.Item) error
	// PutItem inserts or overwrites one item.
	PutItem(ctx context.Context, item models.Item) error
	// GetItem looks one item up; ok is false when it is absent.
	GetItem(ctx context.Context, id int64) (item models.Item, ok bool, err error)
	// GetItemsByList returns the items of a list, open items first.
	GetItemsByList(ctx context.Context, listID int64) ([]models.Item, error)
	// PatchItem applies update with a read-modify-write. It is a no-op,
	// reporting ok=false, when the item is absent.
	PatchItem(ctx context.Context, id int64, update models.ItemUpdate) (item models.Item, ok bool, err error)
	// DeleteItem removes one item. Deleting an absent item is not an error.
	DeleteItem(ctx context.Context, id int64) error
}

// MutationQueue is the durable, ordered log of deferred remote calls.
type MutationQueue interface {
	// Enqueue appends op with the next sequence id and returns it as stored.
	Enqueue(ctx context.Context, op models.QueuedOperation) (models.QueuedOperation, error)
	// PeekAll returns every queued operation, oldest first.
	PeekAll(ctx context.Context) ([]models.QueuedOperation, error)
	// Remove deletes one entry. Removing an absent entry is not an error.
	Remove(ctx context.Context, sequenceID int64) error
	// Clear empties the queue.
	Clear(ctx context.Context) error
	// Count returns the queue length.
	Count(ctx context.Context) (int, error)
	// RecordFailure increments the attempt counter of an entry and returns
	// the new value.
	RecordFailure(ctx context.Context, sequenceID int64, reason string) (int, error)
	// DeadLetter moves an entry, and for a list creation the item creations
	// queued under it, out of the queue into the dead letters.
	DeadLetter(ctx context.Context, sequenceID int64, reason string) (int, error)
	// DeadLetters returns every dead-lettered operation, oldest first.
	DeadLetters(ctx context.Context) ([]models.DeadLetter, error)
}

// Reconciler performs the multi-table updates that keep the local mirror
// and the queue consistent across the pending/confirmed boundary.
type Reconciler interface {
	// ConfirmListCreation replaces a pending list by its confirmed version,
	// relinks its items, rewrites queued paths and removes the queue entry,
	// all in one transaction.
	ConfirmListCreation(ctx context.Context, sequenceID, placeholderID int64, list models.List) error
	// ConfirmItemCreation replaces a pending item by its confirmed version,
	// keeping local edits made while it was pending, and removes the queue
	// entry in one transaction. Local edits the server has not seen are
	// appended to the queue as a PATCH. ok is false when the pending item
	// was removed locally in the meantime.
	ConfirmItemCreation(ctx context.Context, sequenceID, placeholderID int64, item models.Item) (models.Item, bool, error)
	// RetractPendingList drops a pending list, its items and every queued
	// creation referencing it.
	RetractPendingList(ctx context.Context, placeholderID int64) error
	// RetractPendingItem drops a pending item and its queued creation.
	RetractPendingItem(ctx context.Context, placeholderID int64) error
	// MinLocalID returns the smallest id known locally, or zero.
	MinLocalID(ctx context.Context) (int64, error)
}
