// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/danielhkuo/watchalong/cliparse"
	"github.com/danielhkuo/watchalong/db"
	"github.com/danielhkuo/watchalong/models"
)

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseType: cliparse.DatabaseSQLite,
		Backend:      cliparse.BackendInMemory,
	}
}

// SetupTestStore creates a fresh in-memory store with the full schema
func SetupTestStore(t *testing.T) *db.Store {
	t.Helper()

	cfg := GetTestConfig()
	conn, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	store := db.NewStore(conn)
	t.Cleanup(func() { store.Close() })
	return store
}

// CreateTestMovie adds an unwatched movie and returns its ID
func CreateTestMovie(t *testing.T, store *db.Store, name string) int64 {
	t.Helper()

	id, err := store.CreateMovie(context.Background(), models.NewMovie{
		Name:       name,
		Type:       "Movie",
		ProposedBy: "TestUser",
	})
	if err != nil {
		t.Fatalf("Failed to create test movie: %v", err)
	}
	return id
}

// EnqueueTestMovie appends a movie to the queue and returns its position
func EnqueueTestMovie(t *testing.T, store *db.Store, id int64) int64 {
	t.Helper()

	pos, err := store.Enqueue(context.Background(), id)
	if err != nil {
		t.Fatalf("Failed to enqueue test movie: %v", err)
	}
	return pos
}

// CountingBroadcaster records broadcasts instead of pushing them anywhere
type CountingBroadcaster struct {
	mu    sync.Mutex
	count int
	Err   error
}

func (b *CountingBroadcaster) Broadcast(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count++
	return b.Err
}

// Count returns how many broadcasts have been requested
func (b *CountingBroadcaster) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// MakeRequest creates an HTTP test request
// A string body is sent as-is so tests can post malformed JSON
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case string:
		req = httptest.NewRequest(method, path, strings.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	default:
		jsonBody, _ := json.Marshal(b)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertText checks a plain text response body
func AssertText(t *testing.T, w *httptest.ResponseRecorder, expected string) {
	t.Helper()
	if got := w.Body.String(); got != expected {
		t.Errorf("Expected body %q, got %q", expected, got)
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
