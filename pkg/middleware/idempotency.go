package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	apperrors "agendamento/pkg/errors"
)

const ReplayHeader = "Idempotent-Replay"

// IdempotencyStore records successful write responses by client key.
// Reserve claims a key for one in-flight request; Release frees it when the
// request ends without a response worth keeping.
type IdempotencyStore interface {
	Get(key string) (*CachedResponse, bool)
	Reserve(key string) bool
	Release(key string)
	Set(key string, response *CachedResponse)
	Stop()
}

type CachedResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	CreatedAt  time.Time
}

type InMemoryIdempotencyStore struct {
	mu       sync.Mutex
	store    map[string]*CachedResponse
	inFlight map[string]struct{}
	ttl      time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewInMemoryIdempotencyStore(ttl time.Duration) *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		store:    make(map[string]*CachedResponse),
		inFlight: make(map[string]struct{}),
		ttl:      ttl,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
	go s.sweep()
	return s
}

func (s *InMemoryIdempotencyStore) expired(response *CachedResponse) bool {
	return s.now().Sub(response.CreatedAt) > s.ttl
}

func (s *InMemoryIdempotencyStore) Get(key string) (*CachedResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	response, ok := s.store[key]
	if !ok {
		return nil, false
	}
	if s.expired(response) {
		delete(s.store, key)
		return nil, false
	}
	return response, true
}

func (s *InMemoryIdempotencyStore) Reserve(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *InMemoryIdempotencyStore) Release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}

// Set stores response and clears the reservation under one lock.
func (s *InMemoryIdempotencyStore) Set(key string, response *CachedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	response.CreatedAt = s.now()
	s.store[key] = response
	delete(s.inFlight, key)
}

func (s *InMemoryIdempotencyStore) sweep() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			for key, response := range s.store {
				if s.expired(response) {
					delete(s.store, key)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

func (s *InMemoryIdempotencyStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// recorder tees the response so a 2xx can be kept for replay.
type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (rec *recorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *recorder) Write(b []byte) (int, error) {
	rec.body.Write(b)
	return rec.ResponseWriter.Write(b)
}

// Idempotency replays the first successful response for a repeated write
// carrying the same key, so a double-submitted confirmation books once.
// A repeat that arrives while the first is still running gets 409.
// Responses marked Cache-Control: no-store are never kept.
func Idempotency(store IdempotencyStore, headerName string) func(http.Handler) http.Handler {
	if headerName == "" {
		headerName = "Idempotency-Key"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := idempotencyKey(r, headerName)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			if cached, ok := store.Get(key); ok {
				replay(w, cached)
				return
			}
			if !store.Reserve(key) {
				reject(w, apperrors.Conflict("A request with this "+headerName+" is still in progress"))
				return
			}

			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			completed := false
			defer func() {
				if !completed || rec.status < 200 || rec.status >= 300 || noStore(w.Header()) {
					store.Release(key)
					return
				}
				store.Set(key, &CachedResponse{
					StatusCode: rec.status,
					Headers:    w.Header().Clone(),
					Body:       bytes.Clone(rec.body.Bytes()),
				})
			}()
			next.ServeHTTP(rec, r)
			completed = true
		})
	}
}

// idempotencyKey scopes the client key to the route and to the caller's
// Authorization header, so a key cannot replay a response recorded for a
// different endpoint or credential. Reads are never keyed.
func idempotencyKey(r *http.Request, headerName string) string {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return ""
	}
	key := r.Header.Get(headerName)
	if key == "" {
		return ""
	}
	credential := sha256.Sum256([]byte(r.Header.Get("Authorization")))
	return r.Method + " " + r.URL.Path + " " + hex.EncodeToString(credential[:8]) + " " + key
}

func noStore(header http.Header) bool {
	for _, directive := range strings.Split(header.Get("Cache-Control"), ",") {
		if strings.EqualFold(strings.TrimSpace(directive), "no-store") {
			return true
		}
	}
	return false
}

func replay(w http.ResponseWriter, cached *CachedResponse) {
	for key, values := range cached.Headers {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.Header().Set(ReplayHeader, "true")
	w.WriteHeader(cached.StatusCode)
	_, _ = w.Write(cached.Body)
}
