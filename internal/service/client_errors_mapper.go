// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-list-keeper/internal/adapter"
	"github.com/MKhiriev/go-list-keeper/internal/app"
)

// mapAdapterError translates a rejection from the adapter into a service
// error. The result always wraps [ErrRejected] and the original error.
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	msg := extractBody(err)

	switch {
	case errors.Is(err, adapter.ErrBadRequest):
		switch msg {
		case app.MsgLabelRequired, app.MsgItemNameRequired, app.MsgNothingToUpdate, app.MsgInvalidDataProvided:
			return fmt.Errorf("%w: %w: %w", ErrRejected, ErrInvalidDataProvided, err)
		}

	case errors.Is(err, adapter.ErrNotFound):
		switch msg {
		case app.MsgListNotFound:
			return fmt.Errorf("%w: %w: %w", ErrRejected, ErrListNotFound, err)
		case app.MsgItemNotFound:
			return fmt.Errorf("%w: %w: %w", ErrRejected, ErrItemNotFound, err)
		}

	case errors.Is(err, adapter.ErrConflict):
		if msg == app.MsgCatalogEntryExists {
			return fmt.Errorf("%w: %w: %w", ErrRejected, ErrCatalogEntryExists, err)
		}
	}

	return fmt.Errorf("%w: %w", ErrRejected, err)
}

// extractBody extracts the body from a message of the form "bad request: <body>"
func extractBody(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx != -1 {
		return msg[idx+2:]
	}
	return msg
}
