// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the go-list-keeper command line client.
//
// Every command opens the local store, probes the list service once and,
// when the service answers, lets the queued offline changes replay before
// the command itself runs. Reads and writes then go through the sync engine,
// so the same commands work with or without a connection.
package client
