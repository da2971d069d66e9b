// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-list-keeper/models"
)

const (
	tableCatalog     = "catalog_entries"
	tableLists       = "lists"
	tableItems       = "items"
	tableQueue       = "mutation_queue"
	tableDeadLetters = "dead_letters"
)

var (
	catalogColumns = []string{"id", "name"}
	listColumns    = []string{"id", "label", "created_at"}
	itemColumns    = []string{"id", "list_id", "name", "note", "done"}
	queueColumns   = []string{
		"sequence_id", "kind", "method", "path", "body", "local_id",
		"idempotency_key", "attempts", "last_error", "enqueued_at",
	}
)

// minLocalID spans every id the client fabricated or mirrored.
const minLocalID = `
	SELECT MIN(m) FROM (
		SELECT MIN(id) AS m FROM lists
		UNION ALL SELECT MIN(id) FROM items
		UNION ALL SELECT MIN(local_id) FROM mutation_queue
	) AS ids`

// staleRows matches confirmed rows, and pending rows whose creation is no
// longer queued.
func staleRows(kind models.OperationKind) sq.Sqlizer {
	return sq.Or{
		sq.Gt{"id": 0},
		sq.Expr("id NOT IN (SELECT local_id FROM "+tableQueue+" WHERE kind = ?)", string(kind)),
	}
}
