package service

import (
	"context"

	"github.com/MKhiriev/go-list-keeper/models"
)

// SyncEngine is the offline-first facade over the list service. Every call
// works whether or not the server is reachable: reads fall back to the local
// store and writes fall back to an optimistic local change plus a queued
// replay.
type SyncEngine interface {
	// FetchLists refreshes the local mirror of all lists and returns the
	// local view, which also holds lists still pending creation. When the
	// server cannot answer it returns the cached lists, or [ErrNoOfflineData]
	// when there are none.
	FetchLists(ctx context.Context) ([]models.List, error)

	// FetchCatalog behaves like FetchLists for the article catalog.
	FetchCatalog(ctx context.Context) ([]models.CatalogEntry, error)

	// FetchItems behaves like FetchLists for the items of one list. A list
	// pending creation is served locally without contacting the server and
	// may legitimately be empty.
	FetchItems(ctx context.Context, listID int64) ([]models.Item, error)

	// CreateList creates a list on the server. When the server is
	// unreachable the list is created locally with a negative placeholder id
	// and its creation is queued.
	CreateList(ctx context.Context, label string) (models.List, error)

	// DeleteList deletes a list and its items.
	DeleteList(ctx context.Context, id int64) error

	// CreateItem adds an item to a list, optimistically when the server is
	// unreachable or the list itself is pending.
	CreateItem(ctx context.Context, listID int64, req models.CreateItemRequest) (models.Item, error)

	// UpdateItem applies a partial update to an item. A pending item is
	// patched locally and yields [ErrItemNotFound] when it is unknown, for
	// example because its creation was confirmed in the meantime. When the
	// server is unreachable and the item is not cached, the update is queued
	// and the returned item carries only its ID.
	UpdateItem(ctx context.Context, id int64, update models.ItemUpdate) (models.Item, error)

	DeleteItem(ctx context.Context, id int64) error

	// Drain replays the mutation queue in order. Concurrent callers share
	// one pass, which runs under the context of the caller that started it:
	// a caller joining it gets Stopped=true if that context is cancelled,
	// even while its own context is live.
	Drain(ctx context.Context) (models.DrainResult, error)

	PendingCount(ctx context.Context) (int, error)
	QueueSnapshot(ctx context.Context) ([]models.QueuedOperation, error)
	DeadLetters(ctx context.Context) ([]models.DeadLetter, error)

	// ClearQueue drops every queued operation. Diagnostic use only.
	ClearQueue(ctx context.Context) error
}

// Drainer replays the mutation queue. The [ConnectivityObserver] calls it on
// every transition to online.
type Drainer interface {
	Drain(ctx context.Context) (models.DrainResult, error)
}

// PendingObserver is told the queue length after every change to it.
type PendingObserver interface {
	PendingCountChanged(count int)
}

// PendingFunc adapts a plain function to [PendingObserver].
type PendingFunc func(count int)

// PendingCountChanged implements [PendingObserver].
func (f PendingFunc) PendingCountChanged(count int) {
	f(count)
}

// ClientProbeJob periodically checks that the server is reachable and feeds
// the result to the [ConnectivityObserver].
type ClientProbeJob interface {
	// Start launches the background probe. It probes once right away.
	Start(ctx context.Context)

	// Stop cancels the probe and waits for it to exit.
	Stop()

	// Probe checks reachability once and reports whether the server answered.
	Probe(ctx context.Context) bool
}
