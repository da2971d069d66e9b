// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used by the list
// service handlers and by the client when it interprets server replies.
//
// All Msg* constants are human-readable message strings written into HTTP
// response bodies. Keeping them in one place keeps the wording identical on
// both sides of the wire.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidID is returned when a path id is not a positive integer.
	MsgInvalidID = "invalid id"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	MsgLabelRequired       = "bezeichnung is required"
	MsgItemNameRequired    = "artikel_name is required"
	MsgCatalogNameRequired = "name is required"

	// MsgNothingToUpdate is returned for a PATCH without any known field.
	MsgNothingToUpdate = "no fields to update"

	MsgListNotFound         = "list not found"
	MsgItemNotFound         = "item not found"
	MsgCatalogEntryNotFound = "catalog entry not found"

	// MsgCatalogEntryExists is returned when a catalog name is already taken.
	MsgCatalogEntryExists = "catalog entry already exists"
)
