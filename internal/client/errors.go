package client

import "errors"

var (
	errInvalidID    = errors.New("invalid id")
	errAppNotOpened = errors.New("client is not initialised")
)
