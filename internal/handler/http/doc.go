// Package http implements the REST API of the reference list service.
//
// It exposes route wiring, request handlers and middleware. Request
// tracing, access logging, compression, CORS and replay of requests carrying
// an Idempotency-Key are handled here before requests are delegated to the
// service layer.
package http
