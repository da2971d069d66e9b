package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-list-keeper/internal/adapter"
	"github.com/MKhiriev/go-list-keeper/models"
)

// replayOutcome tells the drain loop how to continue after one entry.
type replayOutcome int

const (
	replayNext    replayOutcome = iota // go on with the next entry
	replayRepeek                       // the queue was rewritten, read it again
	replayStop                         // the server is unavailable
)

func (e *clientSyncEngine) Drain(ctx context.Context) (models.DrainResult, error) {
	v, err, shared := e.drainGroup.Do("drain", func() (any, error) {
		return e.drain(ctx)
	})
	if shared {
		e.logger.Debug().Str("func", "clientSyncEngine.Drain").Msg("joined a replay already in flight")
	}

	res, _ := v.(models.DrainResult)
	return res, err
}

// drain replays queued operations oldest first. Confirming a creation
// rewrites the paths of later entries, so the queue is read again after it.
// Entries already attempted in this pass are not attempted twice. Item
// creations wait for the creation of their pending list, and are
// dead-lettered once that creation is no longer queued.
func (e *clientSyncEngine) drain(ctx context.Context) (models.DrainResult, error) {
	var res models.DrainResult
	attempted := make(map[int64]struct{})

	for repeek := true; repeek; {
		repeek = false

		ops, err := e.queue.PeekAll(ctx)
		if err != nil {
			return res, fmt.Errorf("read queue: %w", err)
		}
		queuedLists := queuedListCreations(ops)

	replay:
		for _, op := range ops {
			if _, ok := attempted[op.SequenceID]; ok {
				continue
			}
			listID, underPendingList := pendingParentList(op)
			if _, queued := queuedLists[listID]; underPendingList && queued {
				continue
			}
			if ctx.Err() != nil {
				res.Stopped = true
				break
			}
			attempted[op.SequenceID] = struct{}{}

			if underPendingList {
				if err = e.deadLetterOrphan(ctx, op, listID, &res); err != nil {
					return res, err
				}
				continue
			}

			outcome, err := e.replayOne(ctx, op, &res)
			if err != nil {
				return res, err
			}

			switch outcome {
			case replayStop:
				res.Stopped = true
				break replay
			case replayRepeek:
				repeek = true
				break replay
			}
		}

		if res.Stopped {
			break
		}
	}

	// a cancelled pass still reports what is left
	remaining, err := e.queue.Count(context.WithoutCancel(ctx))
	if err != nil {
		return res, fmt.Errorf("count queue: %w", err)
	}
	res.Remaining = remaining

	if res.Changed() {
		e.observer.notify(remaining)
	}
	return res, nil
}

// pendingParentList matches item creations under a list whose own creation
// has not been confirmed yet.
func pendingParentList(op models.QueuedOperation) (int64, bool) {
	listID, ok := models.ListIDFromItemsPath(op.Path)
	return listID, ok && models.IsPlaceholderID(listID)
}

func queuedListCreations(ops []models.QueuedOperation) map[int64]struct{} {
	lists := make(map[int64]struct{})
	for _, op := range ops {
		if op.Kind == models.OperationCreateList {
			lists[op.LocalID] = struct{}{}
		}
	}
	return lists
}

// deadLetterOrphan moves an item creation whose pending list will never be
// created out of the queue. It is never sent.
func (e *clientSyncEngine) deadLetterOrphan(ctx context.Context, op models.QueuedOperation, listID int64, res *models.DrainResult) error {
	reason := fmt.Sprintf("creation of list %d is no longer queued", listID)

	e.pendingListMu.Lock()
	moved, err := e.queue.DeadLetter(ctx, op.SequenceID, reason)
	e.pendingListMu.Unlock()
	if err != nil {
		return fmt.Errorf("dead-letter orphaned item creation: %w", err)
	}
	res.DeadLettered += moved

	e.logger.Error().
		Str("func", "clientSyncEngine.deadLetterOrphan").
		Int64("sequence_id", op.SequenceID).
		Str("path", op.Path).
		Msg(reason)
	return nil
}

func (e *clientSyncEngine) replayOne(ctx context.Context, op models.QueuedOperation, res *models.DrainResult) (replayOutcome, error) {
	log := e.logger.With().
		Str("func", "clientSyncEngine.replayOne").
		Int64("sequence_id", op.SequenceID).
		Str("method", op.Method).
		Str("path", op.Path).
		Logger()

	body, err := e.adapter.Replay(ctx, op)
	e.observer.Report(ctx, err)

	switch {
	case err == nil:
	case op.Method == http.MethodDelete && errors.Is(err, adapter.ErrNotFound):
		// already gone on the server
	case adapter.IsUnavailable(err):
		log.Debug().Err(err).Msg("server unavailable, replay stopped")
		return replayStop, nil
	default:
		return e.rejectReplay(ctx, op, err, res)
	}

	outcome, err := e.confirm(ctx, op, body)
	if errors.Is(err, adapter.ErrMalformedResponse) {
		return e.rejectReplay(ctx, op, err, res)
	}
	if err != nil {
		return replayNext, err
	}

	res.Succeeded++
	log.Debug().Msg("queued operation confirmed")
	return outcome, nil
}

// confirm removes a replayed entry. Creations go through the reconciler,
// which swaps the placeholder id for the confirmed one.
func (e *clientSyncEngine) confirm(ctx context.Context, op models.QueuedOperation, body []byte) (replayOutcome, error) {
	switch op.Kind {
	case models.OperationCreateList:
		var list models.List
		if err := json.Unmarshal(body, &list); err != nil {
			return replayNext, fmt.Errorf("%w: %w", adapter.ErrMalformedResponse, err)
		}
		e.pendingListMu.Lock()
		err := e.reconciler.ConfirmListCreation(ctx, op.SequenceID, op.LocalID, list)
		e.pendingListMu.Unlock()
		if err != nil {
			return replayNext, fmt.Errorf("confirm list creation: %w", err)
		}
		return replayRepeek, nil

	case models.OperationCreateItem:
		var item models.Item
		if err := json.Unmarshal(body, &item); err != nil {
			return replayNext, fmt.Errorf("%w: %w", adapter.ErrMalformedResponse, err)
		}
		if _, _, err := e.reconciler.ConfirmItemCreation(ctx, op.SequenceID, op.LocalID, item); err != nil {
			return replayNext, fmt.Errorf("confirm item creation: %w", err)
		}
		return replayRepeek, nil
	}

	if err := e.queue.Remove(ctx, op.SequenceID); err != nil {
		return replayNext, fmt.Errorf("remove replayed operation: %w", err)
	}
	return replayNext, nil
}

// rejectReplay counts a refused replay and dead-letters the entry once it
// has used up its attempts.
func (e *clientSyncEngine) rejectReplay(ctx context.Context, op models.QueuedOperation, cause error, res *models.DrainResult) (replayOutcome, error) {
	res.Failed++

	attempts, err := e.queue.RecordFailure(ctx, op.SequenceID, cause.Error())
	if err != nil {
		return replayNext, fmt.Errorf("record replay failure: %w", err)
	}

	if attempts < e.maxReplayAttempts {
		e.logger.Warn().Err(cause).
			Str("func", "clientSyncEngine.rejectReplay").
			Int64("sequence_id", op.SequenceID).
			Int("attempts", attempts).
			Msg("server rejected queued operation")
		return replayNext, nil
	}

	e.pendingListMu.Lock()
	moved, err := e.queue.DeadLetter(ctx, op.SequenceID, cause.Error())
	e.pendingListMu.Unlock()
	if err != nil {
		return replayNext, fmt.Errorf("dead-letter operation: %w", err)
	}
	res.DeadLettered += moved

	e.logger.Error().Err(cause).
		Str("func", "clientSyncEngine.rejectReplay").
		Int64("sequence_id", op.SequenceID).
		Int("attempts", attempts).
		Int("moved", moved).
		Msg("queued operation moved to dead letters")

	if moved > 1 {
		return replayRepeek, nil
	}
	return replayNext, nil
}
