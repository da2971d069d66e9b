package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MKhiriev/go-list-keeper/internal/adapter"
	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/store"
	"github.com/MKhiriev/go-list-keeper/models"
)

const defaultMaxReplayAttempts = 5

type clientSyncEngine struct {
	catalog    store.LocalCatalogRepository
	lists      store.LocalListRepository
	items      store.LocalItemRepository
	queue      store.MutationQueue
	reconciler store.Reconciler

	adapter  adapter.ServerAdapter
	observer *ConnectivityObserver
	clock    *PlaceholderClock

	maxReplayAttempts int
	drainGroup        singleflight.Group

	// pendingListMu orders item creations under a pending list against the
	// confirmation or dead-lettering of that list's creation.
	pendingListMu sync.Mutex

	logger *logger.Logger
}

// NewClientSyncEngine wires the engine and binds it as the drainer of
// observer.
func NewClientSyncEngine(
	storages *store.ClientStorages,
	serverAdapter adapter.ServerAdapter,
	observer *ConnectivityObserver,
	clock *PlaceholderClock,
	cfg config.ClientSync,
	logger *logger.Logger,
) SyncEngine {
	maxAttempts := cfg.MaxReplayAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxReplayAttempts
	}

	e := &clientSyncEngine{
		catalog:           storages.Catalog,
		lists:             storages.Lists,
		items:             storages.Items,
		queue:             storages.Queue,
		reconciler:        storages.Reconciler,
		adapter:           serverAdapter,
		observer:          observer,
		clock:             clock,
		maxReplayAttempts: maxAttempts,
		logger:            logger,
	}
	observer.setDrainer(e)
	return e
}

// ── reads ─────────────────────────────────────────────────────────────────────

func (e *clientSyncEngine) FetchLists(ctx context.Context) ([]models.List, error) {
	remote, err := e.adapter.GetLists(ctx)
	wasOnline := e.observer.Report(ctx, err)

	if err == nil {
		if err = e.lists.ReplaceLists(ctx, remote); err != nil {
			e.logger.Err(err).Str("func", "clientSyncEngine.FetchLists").Msg("failed to mirror lists locally")
			return remote, nil
		}
		return e.lists.GetLists(ctx)
	}

	e.logFallback("clientSyncEngine.FetchLists", err, wasOnline)
	local, lerr := e.lists.GetLists(ctx)
	return offlineResult(local, lerr, err)
}

func (e *clientSyncEngine) FetchCatalog(ctx context.Context) ([]models.CatalogEntry, error) {
	remote, err := e.adapter.GetCatalog(ctx)
	wasOnline := e.observer.Report(ctx, err)

	if err == nil {
		if err = e.catalog.ReplaceCatalog(ctx, remote); err != nil {
			e.logger.Err(err).Str("func", "clientSyncEngine.FetchCatalog").Msg("failed to mirror catalog locally")
			return remote, nil
		}
		return e.catalog.GetCatalog(ctx)
	}

	e.logFallback("clientSyncEngine.FetchCatalog", err, wasOnline)
	local, lerr := e.catalog.GetCatalog(ctx)
	return offlineResult(local, lerr, err)
}

func (e *clientSyncEngine) FetchItems(ctx context.Context, listID int64) ([]models.Item, error) {
	if models.IsPlaceholderID(listID) {
		return e.items.GetItemsByList(ctx, listID)
	}

	remote, err := e.adapter.GetItems(ctx, listID)
	wasOnline := e.observer.Report(ctx, err)

	if err == nil {
		if err = e.items.ReplaceItems(ctx, listID, remote); err != nil {
			e.logger.Err(err).
				Str("func", "clientSyncEngine.FetchItems").
				Int64("list_id", listID).
				Msg("failed to mirror items locally")
			return remote, nil
		}
		return e.items.GetItemsByList(ctx, listID)
	}

	e.logFallback("clientSyncEngine.FetchItems", err, wasOnline)
	local, lerr := e.items.GetItemsByList(ctx, listID)
	return offlineResult(local, lerr, err)
}

// offlineResult serves cached rows. An unreadable store counts as empty.
func offlineResult[T any](local []T, storeErr, remoteErr error) ([]T, error) {
	if storeErr != nil || len(local) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrNoOfflineData, remoteErr)
	}
	return local, nil
}

func (e *clientSyncEngine) logFallback(funcName string, err error, wasOnline bool) {
	ev := e.logger.Debug()
	if wasOnline {
		ev = e.logger.Warn()
	}
	ev.Err(err).Str("func", funcName).Msg("server did not answer, serving local data")
}

// ── writes ────────────────────────────────────────────────────────────────────

func (e *clientSyncEngine) CreateList(ctx context.Context, label string) (models.List, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return models.List{}, ErrInvalidDataProvided
	}
	req := models.CreateListRequest{Label: label}

	confirmed, err := e.adapter.CreateList(ctx, req)
	wasOnline := e.observer.Report(ctx, err)
	switch {
	case err == nil:
		if perr := e.lists.PutList(ctx, confirmed); perr != nil {
			e.logger.Err(perr).Str("func", "clientSyncEngine.CreateList").Int64("list_id", confirmed.ID).Msg("failed to store confirmed list")
		}
		return confirmed, nil
	case !adapter.IsUnavailable(err):
		return models.List{}, mapAdapterError(err)
	case ctx.Err() != nil:
		return models.List{}, ctx.Err()
	}

	e.logFallback("clientSyncEngine.CreateList", err, wasOnline)

	pending := models.List{ID: e.clock.Next(), Label: label, CreatedAt: time.Now().UTC()}
	op, err := models.NewCreateListOperation(pending.ID, req)
	if err != nil {
		return models.List{}, fmt.Errorf("encode list creation: %w", err)
	}

	if err = e.lists.PutList(ctx, pending); err != nil {
		return models.List{}, fmt.Errorf("store pending list: %w", err)
	}
	if err = e.enqueue(ctx, op); err != nil {
		if derr := e.lists.DeleteList(ctx, pending.ID); derr != nil {
			e.logger.Err(derr).Str("func", "clientSyncEngine.CreateList").Int64("list_id", pending.ID).Msg("failed to drop unqueued pending list")
		}
		return models.List{}, err
	}

	return pending, nil
}

func (e *clientSyncEngine) DeleteList(ctx context.Context, id int64) error {
	if models.IsPlaceholderID(id) {
		e.pendingListMu.Lock()
		err := e.reconciler.RetractPendingList(ctx, id)
		e.pendingListMu.Unlock()
		if err != nil {
			return fmt.Errorf("retract pending list: %w", err)
		}
		e.notify(ctx)
		return nil
	}

	err := e.adapter.DeleteList(ctx, id)
	wasOnline := e.observer.Report(ctx, err)
	switch {
	case err == nil, errors.Is(err, adapter.ErrNotFound):
		return e.lists.DeleteList(ctx, id)
	case !adapter.IsUnavailable(err):
		return mapAdapterError(err)
	case ctx.Err() != nil:
		return ctx.Err()
	}

	e.logFallback("clientSyncEngine.DeleteList", err, wasOnline)

	if err = e.lists.DeleteList(ctx, id); err != nil {
		return fmt.Errorf("delete list locally: %w", err)
	}
	return e.enqueue(ctx, models.NewDeleteListOperation(id))
}

func (e *clientSyncEngine) CreateItem(ctx context.Context, listID int64, req models.CreateItemRequest) (models.Item, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return models.Item{}, ErrInvalidDataProvided
	}

	if models.IsPlaceholderID(listID) {
		e.pendingListMu.Lock()
		defer e.pendingListMu.Unlock()

		_, ok, err := e.lists.GetList(ctx, listID)
		if err != nil {
			return models.Item{}, fmt.Errorf("load pending list: %w", err)
		}
		if !ok {
			return models.Item{}, ErrListNotFound
		}
		return e.createItemLocally(ctx, listID, req)
	}

	confirmed, err := e.adapter.CreateItem(ctx, listID, req)
	wasOnline := e.observer.Report(ctx, err)
	switch {
	case err == nil:
		if perr := e.items.PutItem(ctx, confirmed); perr != nil {
			e.logger.Err(perr).Str("func", "clientSyncEngine.CreateItem").Int64("item_id", confirmed.ID).Msg("failed to store confirmed item")
		}
		return confirmed, nil
	case !adapter.IsUnavailable(err):
		return models.Item{}, mapAdapterError(err)
	case ctx.Err() != nil:
		return models.Item{}, ctx.Err()
	}

	e.logFallback("clientSyncEngine.CreateItem", err, wasOnline)
	return e.createItemLocally(ctx, listID, req)
}

func (e *clientSyncEngine) createItemLocally(ctx context.Context, listID int64, req models.CreateItemRequest) (models.Item, error) {
	pending := models.Item{ID: e.clock.Next(), ListID: listID, Name: req.Name, Note: req.Note}
	op, err := models.NewCreateItemOperation(pending.ID, listID, req)
	if err != nil {
		return models.Item{}, fmt.Errorf("encode item creation: %w", err)
	}

	if err = e.items.PutItem(ctx, pending); err != nil {
		return models.Item{}, fmt.Errorf("store pending item: %w", err)
	}
	if err = e.enqueue(ctx, op); err != nil {
		if derr := e.items.DeleteItem(ctx, pending.ID); derr != nil {
			e.logger.Err(derr).Str("func", "clientSyncEngine.createItemLocally").Int64("item_id", pending.ID).Msg("failed to drop unqueued pending item")
		}
		return models.Item{}, err
	}

	return pending, nil
}

func (e *clientSyncEngine) UpdateItem(ctx context.Context, id int64, update models.ItemUpdate) (models.Item, error) {
	if update.IsEmpty() || (update.Name != nil && strings.TrimSpace(*update.Name) == "") {
		return models.Item{}, ErrInvalidDataProvided
	}

	// folded into the queued creation when it is confirmed
	if models.IsPlaceholderID(id) {
		patched, ok, err := e.items.PatchItem(ctx, id, update)
		if err != nil {
			return models.Item{}, fmt.Errorf("patch pending item: %w", err)
		}
		if !ok {
			return models.Item{}, ErrItemNotFound
		}
		return patched, nil
	}

	confirmed, err := e.adapter.UpdateItem(ctx, id, update)
	wasOnline := e.observer.Report(ctx, err)
	switch {
	case err == nil:
		if perr := e.items.PutItem(ctx, confirmed); perr != nil {
			e.logger.Err(perr).Str("func", "clientSyncEngine.UpdateItem").Int64("item_id", id).Msg("failed to store confirmed item")
		}
		return confirmed, nil
	case !adapter.IsUnavailable(err):
		return models.Item{}, mapAdapterError(err)
	case ctx.Err() != nil:
		return models.Item{}, ctx.Err()
	}

	e.logFallback("clientSyncEngine.UpdateItem", err, wasOnline)

	op, err := models.NewUpdateItemOperation(id, update)
	if err != nil {
		return models.Item{}, fmt.Errorf("encode item update: %w", err)
	}

	patched, found, err := e.items.PatchItem(ctx, id, update)
	if err != nil {
		return models.Item{}, fmt.Errorf("patch item locally: %w", err)
	}
	if !found {
		patched = models.Item{ID: id}
	}

	if err = e.enqueue(ctx, op); err != nil {
		return models.Item{}, err
	}
	return patched, nil
}

func (e *clientSyncEngine) DeleteItem(ctx context.Context, id int64) error {
	if models.IsPlaceholderID(id) {
		if err := e.reconciler.RetractPendingItem(ctx, id); err != nil {
			return fmt.Errorf("retract pending item: %w", err)
		}
		e.notify(ctx)
		return nil
	}

	err := e.adapter.DeleteItem(ctx, id)
	wasOnline := e.observer.Report(ctx, err)
	switch {
	case err == nil, errors.Is(err, adapter.ErrNotFound):
		return e.items.DeleteItem(ctx, id)
	case !adapter.IsUnavailable(err):
		return mapAdapterError(err)
	case ctx.Err() != nil:
		return ctx.Err()
	}

	e.logFallback("clientSyncEngine.DeleteItem", err, wasOnline)

	if err = e.items.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("delete item locally: %w", err)
	}
	return e.enqueue(ctx, models.NewDeleteItemOperation(id))
}

func (e *clientSyncEngine) enqueue(ctx context.Context, op models.QueuedOperation) error {
	stored, err := e.queue.Enqueue(ctx, op)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", op.Kind, err)
	}

	e.logger.Debug().
		Str("func", "clientSyncEngine.enqueue").
		Int64("sequence_id", stored.SequenceID).
		Str("method", stored.Method).
		Str("path", stored.Path).
		Msg("operation queued for replay")

	e.notify(ctx)
	return nil
}

// notify publishes the current queue length.
func (e *clientSyncEngine) notify(ctx context.Context) {
	n, err := e.queue.Count(ctx)
	if err != nil {
		e.logger.Err(err).Str("func", "clientSyncEngine.notify").Msg("failed to count queued operations")
		return
	}
	e.observer.notify(n)
}

// ── queue inspection ─────────────────────────────────────────────────────────

func (e *clientSyncEngine) PendingCount(ctx context.Context) (int, error) {
	return e.queue.Count(ctx)
}

func (e *clientSyncEngine) QueueSnapshot(ctx context.Context) ([]models.QueuedOperation, error) {
	return e.queue.PeekAll(ctx)
}

func (e *clientSyncEngine) DeadLetters(ctx context.Context) ([]models.DeadLetter, error) {
	return e.queue.DeadLetters(ctx)
}

func (e *clientSyncEngine) ClearQueue(ctx context.Context) error {
	if err := e.queue.Clear(ctx); err != nil {
		return fmt.Errorf("clear queue: %w", err)
	}
	e.observer.notify(0)
	return nil
}
