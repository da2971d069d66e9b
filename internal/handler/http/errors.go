// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// ErrInvalidID is returned when a path id is missing, not a number or not
// positive.
var ErrInvalidID = errors.New("invalid id")
