// Package workers provides abstractions for managing background workers.
// It defines the Worker interface and a Workers aggregate that starts and
// stops several workers as one.
package workers

import "context"

// Worker is a background job with an explicit lifecycle.
//
// Start must not block: implementations spawn their own goroutine and tie it
// to ctx. Stop cancels the goroutine and waits for it to exit. Both must be
// safe to call more than once.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}
