package http

import (
	"bytes"
	"io"
	"net/http"
	"sync"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/utils"
)

const (
	idempotencyKeyHeader   = "Idempotency-Key"
	idempotentReplayHeader = "Idempotent-Replayed"

	defaultIdempotencyCacheSize = 4096
)

// idempotencyCache remembers the response to a write carrying an
// Idempotency-Key. Entries are evicted oldest first once size is reached.
type idempotencyCache struct {
	mu      sync.Mutex
	size    int
	entries map[string]idempotencyEntry
	order   []string

	inflight map[string]chan struct{}
}

type idempotencyEntry struct {
	fingerprint string
	response    responseData
}

func newIdempotencyCache(size int) *idempotencyCache {
	return &idempotencyCache{
		size:     size,
		entries:  make(map[string]idempotencyEntry),
		inflight: make(map[string]chan struct{}),
	}
}

// acquire returns the stored entry for key, or reserves key for the caller.
// A caller holding the reservation must call release. Concurrent requests
// with the same key wait for the first one to finish.
func (c *idempotencyCache) acquire(key string) (idempotencyEntry, bool) {
	for {
		c.mu.Lock()
		if e, ok := c.entries[key]; ok {
			c.mu.Unlock()
			return e, true
		}
		wait, busy := c.inflight[key]
		if !busy {
			c.inflight[key] = make(chan struct{})
			c.mu.Unlock()
			return idempotencyEntry{}, false
		}
		c.mu.Unlock()
		<-wait
	}
}

// release frees the reservation of key, storing entry when store is set.
func (c *idempotencyCache) release(key string, entry idempotencyEntry, store bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if store {
		if _, exists := c.entries[key]; !exists {
			c.order = append(c.order, key)
		}
		c.entries[key] = entry
		for len(c.order) > c.size {
			delete(c.entries, c.order[0])
			c.order = c.order[1:]
		}
	}

	if wait, ok := c.inflight[key]; ok {
		close(wait)
		delete(c.inflight, key)
	}
}

// withIdempotency answers a repeated write carrying the same Idempotency-Key
// with the response of the first one, so a replay whose answer was lost
// does not create a second entity. Server errors are not remembered and
// may be retried. A key reused for a different request is a 409.
func (h *Handler) withIdempotency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(idempotencyKeyHeader)
		if key == "" || r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Err(err).Str("func", "*Handler.withIdempotency").Msg("failed to read request body")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		fingerprint := requestFingerprint(r.Method, r.URL.Path, body)

		entry, found := h.idempotency.acquire(key)
		if found {
			if entry.fingerprint != fingerprint {
				log.Warn().Str("func", "*Handler.withIdempotency").Str("key", key).Msg("idempotency key reused for a different request")
				http.Error(w, "idempotency key reused", http.StatusConflict)
				return
			}

			log.Debug().Str("func", "*Handler.withIdempotency").Str("key", key).Msg("answering repeated request from cache")
			w.Header().Set(idempotentReplayHeader, "true")
			entry.response.writeTo(w)
			return
		}

		cw := &responseWriter{ResponseWriter: w, capture: true}
		stored := false
		defer func() {
			h.idempotency.release(key, idempotencyEntry{fingerprint: fingerprint, response: cw.snapshot()}, stored)
		}()

		next.ServeHTTP(cw, r)
		stored = cw.snapshot().status < http.StatusInternalServerError
	})
}

func requestFingerprint(method, path string, body []byte) string {
	return utils.Fingerprint([]byte(method), []byte(path), body)
}
