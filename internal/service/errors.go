package service

import (
	"errors"

	"github.com/MKhiriev/go-list-keeper/internal/app"
)

var (
	// ErrInvalidDataProvided is returned before any side effect when a
	// label, name or update is empty.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrNoOfflineData is returned by a read when the server could not
	// answer and the local store holds nothing for the query.
	ErrNoOfflineData = errors.New("no data available, offline")

	// ErrRejected wraps a write the server refused. The local store is left
	// untouched.
	ErrRejected = errors.New("rejected by server")

	ErrListNotFound         = errors.New("list not found")
	ErrItemNotFound         = errors.New("item not found")
	ErrCatalogEntryNotFound = errors.New("catalog entry not found")
	ErrCatalogEntryExists   = errors.New("catalog entry already exists")
)

// Validation failures of the list service. Their text is the response body.
var (
	ErrValidationLabelRequired       = errors.New(app.MsgLabelRequired)
	ErrValidationItemNameRequired    = errors.New(app.MsgItemNameRequired)
	ErrValidationCatalogNameRequired = errors.New(app.MsgCatalogNameRequired)
	ErrValidationNothingToUpdate     = errors.New(app.MsgNothingToUpdate)

	ErrVersionIsNotSpecified = errors.New("version is not specified")
)
