// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"net/http"
)

// snapshotHeaders are kept with a snapshot. Transport headers such as
// Content-Encoding are left to the middleware that writes the replay.
var snapshotHeaders = []string{"Content-Type", "X-Content-Type-Options"}

// responseData is a snapshot of a completed response, detached from the
// live writer so it can be stored and written again later.
type responseData struct {
	status int
	header http.Header
	body   []byte
}

// writeTo replays the snapshot on w.
func (d responseData) writeTo(w http.ResponseWriter) {
	for k, v := range d.header {
		w.Header()[k] = append([]string(nil), v...)
	}
	w.WriteHeader(d.status)
	w.Write(d.body)
}

// responseWriter decorates [http.ResponseWriter] to observe the status code
// and body size after the downstream handler has returned.
//
// WriteHeader is forwarded exactly once. When capture is set the body is
// also buffered so the response can be snapshotted.
type responseWriter struct {
	http.ResponseWriter

	status      int
	wroteHeader bool
	size        int

	capture bool
	body    bytes.Buffer
}

func (w *responseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.status = statusCode
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

// Write implicitly sends 200 when no status was written yet.
func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	if w.capture {
		w.body.Write(b[:n])
	}
	return n, err
}

// snapshot returns the captured response. Only meaningful with capture set.
func (w *responseWriter) snapshot() responseData {
	status := w.status
	if status == 0 {
		status = http.StatusOK
	}
	header := make(http.Header)
	for _, k := range snapshotHeaders {
		if v := w.Header().Values(k); len(v) > 0 {
			header[k] = append([]string(nil), v...)
		}
	}
	return responseData{
		status: status,
		header: header,
		body:   bytes.Clone(w.body.Bytes()),
	}
}
