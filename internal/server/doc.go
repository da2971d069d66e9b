// Package server runs the HTTP transport of the reference list service,
// including startup, signal handling and graceful shutdown.
package server
