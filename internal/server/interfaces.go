package server

import "context"

// Server defines the lifecycle of the transport server.
type Server interface {
	// Serve serves until ctx is cancelled, then shuts down gracefully.
	Serve(ctx context.Context) error

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
