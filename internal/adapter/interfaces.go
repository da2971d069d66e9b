// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client side transport to the shopping list
// service.
//
// [ServerAdapter] decouples the sync engine from the protocol. The package
// ships an HTTP/REST implementation ([NewHTTPServerAdapter]) built on resty.
//
// Every returned error wraps one of the sentinels in errors.go. Callers
// classify them with [IsUnavailable] (retry later) and [IsRejected] (the
// server refused the call) instead of looking at status codes.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-list-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter is the remote list service as seen by the client.
type ServerAdapter interface {
	// Ping checks that the service answers at all.
	Ping(ctx context.Context) error

	GetCatalog(ctx context.Context) ([]models.CatalogEntry, error)
	GetLists(ctx context.Context) ([]models.List, error)
	// GetItems returns the items of one list. An unknown list yields
	// [ErrNotFound].
	GetItems(ctx context.Context, listID int64) ([]models.Item, error)

	// CreateList returns the list as stored by the server, with its id and
	// creation time.
	CreateList(ctx context.Context, req models.CreateListRequest) (models.List, error)
	DeleteList(ctx context.Context, id int64) error
	CreateItem(ctx context.Context, listID int64, req models.CreateItemRequest) (models.Item, error)
	// UpdateItem sends a partial update and returns the resulting item.
	UpdateItem(ctx context.Context, id int64, update models.ItemUpdate) (models.Item, error)
	DeleteItem(ctx context.Context, id int64) error

	// Replay sends a queued operation verbatim, with its idempotency key in
	// the Idempotency-Key header, and returns the raw response body.
	Replay(ctx context.Context, op models.QueuedOperation) ([]byte, error)
}
