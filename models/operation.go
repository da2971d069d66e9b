package models

import (
	"encoding/json"
	"net/http"
	"time"
)

// OperationKind names the engine write a [QueuedOperation] was recorded for.
type OperationKind string

const (
	OperationCreateList OperationKind = "create_list"
	OperationDeleteList OperationKind = "delete_list"
	OperationCreateItem OperationKind = "create_item"
	OperationUpdateItem OperationKind = "update_item"
	OperationDeleteItem OperationKind = "delete_item"
)

// IsCreation reports whether the operation creates an entity on the server.
func (k OperationKind) IsCreation() bool {
	return k == OperationCreateList || k == OperationCreateItem
}

// QueuedOperation is one deferred remote call.
//
// SequenceID is assigned by the queue on enqueue and strictly increases, so
// ordering by SequenceID is the replay order. Method, Path and Body fully
// describe the call. LocalID is the id of the local entity the operation was
// recorded for; it is a placeholder id for pending creations.
type QueuedOperation struct {
	SequenceID     int64           `json:"sequence_id"`
	Kind           OperationKind   `json:"kind"`
	Method         string          `json:"method"`
	Path           string          `json:"path"`
	Body           json.RawMessage `json:"body,omitempty"`
	LocalID        int64           `json:"local_id"`
	IdempotencyKey string          `json:"idempotency_key"`
	Attempts       int             `json:"attempts"`
	LastError      string          `json:"last_error,omitempty"`
	EnqueuedAt     time.Time       `json:"enqueued_at"`
}

// DeadLetter is a queued operation the server kept rejecting. It no longer
// takes part in replay.
type DeadLetter struct {
	QueuedOperation
	FailedAt time.Time `json:"failed_at"`
}

// NewCreateListOperation describes POST /listen for the pending list localID.
func NewCreateListOperation(localID int64, req CreateListRequest) (QueuedOperation, error) {
	return newOperation(OperationCreateList, http.MethodPost, ListsPath, localID, req)
}

// NewDeleteListOperation describes DELETE /listen/{id}.
func NewDeleteListOperation(id int64) QueuedOperation {
	return QueuedOperation{Kind: OperationDeleteList, Method: http.MethodDelete, Path: ListPath(id), LocalID: id}
}

// NewCreateItemOperation describes POST /listen/{listID}/positionen for the pending item localID.
func NewCreateItemOperation(localID, listID int64, req CreateItemRequest) (QueuedOperation, error) {
	return newOperation(OperationCreateItem, http.MethodPost, ItemsPath(listID), localID, req)
}

// NewUpdateItemOperation describes PATCH /positionen/{id}.
func NewUpdateItemOperation(id int64, update ItemUpdate) (QueuedOperation, error) {
	return newOperation(OperationUpdateItem, http.MethodPatch, ItemPath(id), id, update)
}

// NewDeleteItemOperation describes DELETE /positionen/{id}.
func NewDeleteItemOperation(id int64) QueuedOperation {
	return QueuedOperation{Kind: OperationDeleteItem, Method: http.MethodDelete, Path: ItemPath(id), LocalID: id}
}

func newOperation(kind OperationKind, method, path string, localID int64, body any) (QueuedOperation, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return QueuedOperation{}, err
	}
	return QueuedOperation{Kind: kind, Method: method, Path: path, Body: raw, LocalID: localID}, nil
}

// DrainResult summarizes one replay pass over the mutation queue.
type DrainResult struct {
	// Succeeded counts operations confirmed by the server and removed from the queue.
	Succeeded int `json:"succeeded"`
	// Failed counts operations the server rejected during this pass.
	Failed int `json:"failed"`
	// DeadLettered counts rejected operations moved out of the queue.
	DeadLettered int `json:"dead_lettered"`
	// Remaining is the queue length after the pass.
	Remaining int `json:"remaining"`
	// Stopped is set when the pass ended early because the server became unreachable.
	Stopped bool `json:"stopped"`
}

// Changed reports whether the pass modified the queue.
func (r DrainResult) Changed() bool {
	return r.Succeeded > 0 || r.DeadLettered > 0
}
