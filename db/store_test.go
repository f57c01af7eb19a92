// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielhkuo/watchalong/cliparse"
	"github.com/danielhkuo/watchalong/models"
)

// setupTestStore creates an in-memory database for testing
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	conn, err := Open(cliparse.Config{
		DatabaseType: cliparse.DatabaseSQLite,
		Backend:      cliparse.BackendInMemory,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := CreateSchema(conn, cliparse.DatabaseSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	store := NewStore(conn)
	t.Cleanup(func() { store.Close() })
	return store
}

func addMovie(t *testing.T, s *Store, name string) int64 {
	t.Helper()
	id, err := s.CreateMovie(context.Background(), models.NewMovie{
		Name:       name,
		Type:       "Movie",
		ProposedBy: "Tester",
	})
	if err != nil {
		t.Fatalf("CreateMovie(%q) error = %v", name, err)
	}
	return id
}

func TestCreateSchema_Idempotent(t *testing.T) {
	s := setupTestStore(t)

	if err := CreateSchema(s.db, cliparse.DatabaseSQLite); err != nil {
		t.Fatalf("second CreateSchema failed: %v", err)
	}
}

func TestCreateMovie(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	id, err := s.CreateMovie(ctx, models.NewMovie{
		Name:       "Test Movie",
		Watched:    false,
		Type:       "Movie",
		ProposedBy: "Tester",
	})
	if err != nil {
		t.Fatalf("CreateMovie() error = %v", err)
	}
	if id == 0 {
		t.Fatal("CreateMovie() returned id 0")
	}

	movies, err := s.ListMovies(ctx)
	if err != nil {
		t.Fatalf("ListMovies() error = %v", err)
	}

	want := []models.Movie{{
		ID:         id,
		Name:       "Test Movie",
		Type:       "Movie",
		ProposedBy: "Tester",
		Ratings:    models.Ratings{},
	}}
	if diff := cmp.Diff(want, movies); diff != "" {
		t.Errorf("ListMovies() mismatch (-want +got):\n%s", diff)
	}

	queue, err := s.ListQueue(ctx)
	if err != nil {
		t.Fatalf("ListQueue() error = %v", err)
	}
	if len(queue) != 0 {
		t.Errorf("expected empty queue, got %d items", len(queue))
	}
}

func TestCreateMovie_Validation(t *testing.T) {
	s := setupTestStore(t)

	testCases := []struct {
		name  string
		movie models.NewMovie
	}{
		{"missing name", models.NewMovie{Type: "Movie", ProposedBy: "Tester"}},
		{"missing type", models.NewMovie{Name: "X", ProposedBy: "Tester"}},
		{"missing proposer", models.NewMovie{Name: "X", Type: "Movie"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreateMovie(context.Background(), tc.movie)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}

	movies, _ := s.ListMovies(context.Background())
	if len(movies) != 0 {
		t.Errorf("rejected movies must not be stored, got %d", len(movies))
	}
}

func TestListMovies_CreationOrder(t *testing.T) {
	s := setupTestStore(t)

	ids := []int64{addMovie(t, s, "First"), addMovie(t, s, "Second"), addMovie(t, s, "Third")}

	movies, err := s.ListMovies(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(movies) != len(ids) {
		t.Fatalf("expected %d movies, got %d", len(ids), len(movies))
	}
	for i, m := range movies {
		if m.ID != ids[i] {
			t.Errorf("position %d: expected id %d, got %d", i, ids[i], m.ID)
		}
	}
}

func TestGetMovie_NotFound(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.GetMovie(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEnqueue_AppendsPositions(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	first := addMovie(t, s, "First")
	second := addMovie(t, s, "Second")

	pos, err := s.Enqueue(ctx, first)
	if err != nil {
		t.Fatalf("Enqueue(first) error = %v", err)
	}
	if pos != 1 {
		t.Errorf("expected position 1, got %d", pos)
	}

	pos, err = s.Enqueue(ctx, second)
	if err != nil {
		t.Fatalf("Enqueue(second) error = %v", err)
	}
	if pos != 2 {
		t.Errorf("expected position 2, got %d", pos)
	}

	queue, err := s.ListQueue(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(queue) != 2 || queue[0].ID != first || queue[1].ID != second {
		t.Errorf("unexpected queue order: %+v", queue)
	}
}

func TestEnqueue_PositionsNotReused(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	a := addMovie(t, s, "A")
	b := addMovie(t, s, "B")
	c := addMovie(t, s, "C")

	s.Enqueue(ctx, a)
	s.Enqueue(ctx, b)

	// Removing the head leaves a gap at 1; the next append still goes after 2
	if _, err := s.DequeueFront(ctx); err != nil {
		t.Fatal(err)
	}
	pos, err := s.Enqueue(ctx, c)
	if err != nil {
		t.Fatal(err)
	}
	if pos != 3 {
		t.Errorf("expected position 3, got %d", pos)
	}

	queue, _ := s.ListQueue(ctx)
	if len(queue) != 2 || queue[0].ID != b || queue[1].ID != c {
		t.Errorf("unexpected queue: %+v", queue)
	}
	if *queue[0].QueuePosition != 2 {
		t.Errorf("remaining positions must not be renumbered, got %d", *queue[0].QueuePosition)
	}
}

func TestEnqueue_NotFound(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	if _, err := s.Enqueue(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Nothing was queued, so the next real enqueue still starts at 1
	id := addMovie(t, s, "Real")
	pos, err := s.Enqueue(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if pos != 1 {
		t.Errorf("expected position 1, got %d", pos)
	}
}

func TestEnqueue_AlreadyQueuedMovesToEnd(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	a := addMovie(t, s, "A")
	b := addMovie(t, s, "B")
	s.Enqueue(ctx, a)
	s.Enqueue(ctx, b)

	pos, err := s.Enqueue(ctx, a)
	if err != nil {
		t.Fatal(err)
	}
	if pos != 3 {
		t.Errorf("expected position 3, got %d", pos)
	}

	queue, _ := s.ListQueue(ctx)
	if len(queue) != 2 || queue[0].ID != b || queue[1].ID != a {
		t.Errorf("unexpected queue: %+v", queue)
	}
}

func TestDequeueFront(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	id := addMovie(t, s, "Test Movie")
	if _, err := s.Enqueue(ctx, id); err != nil {
		t.Fatal(err)
	}

	got, err := s.DequeueFront(ctx)
	if err != nil {
		t.Fatalf("DequeueFront() error = %v", err)
	}
	if got != id {
		t.Errorf("expected id %d, got %d", id, got)
	}

	m, err := s.GetMovie(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if m.QueuePosition != nil {
		t.Errorf("expected nil queue position, got %d", *m.QueuePosition)
	}
	if !m.Watched {
		t.Error("expected dequeued movie to be watched")
	}
}

func TestDequeueFront_Empty(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	id := addMovie(t, s, "Unqueued")

	if _, err := s.DequeueFront(ctx); !errors.Is(err, ErrEmptyQueue) {
		t.Fatalf("expected ErrEmptyQueue, got %v", err)
	}

	m, _ := s.GetMovie(ctx, id)
	if m.Watched {
		t.Error("empty dequeue must not mutate anything")
	}
}

func TestRate_Accumulates(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	id := addMovie(t, s, "Rated")

	if err := s.Rate(ctx, id, "alice", json.RawMessage(`5`)); err != nil {
		t.Fatalf("Rate(alice) error = %v", err)
	}
	if err := s.Rate(ctx, id, "bob", json.RawMessage(`3.5`)); err != nil {
		t.Fatalf("Rate(bob) error = %v", err)
	}

	m, err := s.GetMovie(ctx, id)
	if err != nil {
		t.Fatal(err)
	}

	want := models.Ratings{"alice": json.RawMessage(`5`), "bob": json.RawMessage(`3.5`)}
	if diff := cmp.Diff(want, m.Ratings); diff != "" {
		t.Errorf("ratings mismatch (-want +got):\n%s", diff)
	}
}

func TestRate_OverwritesSameUser(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	id := addMovie(t, s, "Rated")
	s.Rate(ctx, id, "alice", json.RawMessage(`1`))
	s.Rate(ctx, id, "alice", json.RawMessage(`"great"`))

	m, _ := s.GetMovie(ctx, id)
	want := models.Ratings{"alice": json.RawMessage(`"great"`)}
	if diff := cmp.Diff(want, m.Ratings); diff != "" {
		t.Errorf("ratings mismatch (-want +got):\n%s", diff)
	}
}

func TestRate_NotFound(t *testing.T) {
	s := setupTestStore(t)

	err := s.Rate(context.Background(), 7, "alice", json.RawMessage(`5`))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRatings_RoundTrip(t *testing.T) {
	testCases := []struct {
		name    string
		ratings models.Ratings
		encoded string
	}{
		{"empty", models.Ratings{}, "{}"},
		{"nil", nil, "{}"},
		{"one", models.Ratings{"alice": json.RawMessage(`5`)}, `{"alice":5}`},
		{"mixed", models.Ratings{"a": json.RawMessage(`1`), "b": json.RawMessage(`null`)}, `{"a":1,"b":null}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := encodeRatings(tc.ratings)
			if err != nil {
				t.Fatal(err)
			}
			if encoded != tc.encoded {
				t.Errorf("encoded %q, want %q", encoded, tc.encoded)
			}

			decoded, err := decodeRatings(encoded)
			if err != nil {
				t.Fatal(err)
			}
			if len(decoded) != len(tc.ratings) {
				t.Errorf("decoded %d ratings, want %d", len(decoded), len(tc.ratings))
			}
			for k, v := range tc.ratings {
				if string(decoded[k]) != string(v) {
					t.Errorf("rating %s: got %s, want %s", k, decoded[k], v)
				}
			}
		})
	}
}

func TestDecodeRatings_Malformed(t *testing.T) {
	if _, err := decodeRatings("not json"); err == nil {
		t.Error("expected error for malformed ratings")
	}
	r, err := decodeRatings("")
	if err != nil || r == nil || len(r) != 0 {
		t.Errorf("empty text should decode to an empty map, got %v, %v", r, err)
	}
}

func TestUpsertAlias(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	if err := s.UpsertAlias(ctx, "alice", "Al"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertAlias(ctx, "bob", "Bobby"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertAlias(ctx, "alice", "Alice"); err != nil {
		t.Fatal(err)
	}

	aliases, err := s.ListAliases(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"alice": "Alice", "bob": "Bobby"}
	if diff := cmp.Diff(want, aliases); diff != "" {
		t.Errorf("aliases mismatch (-want +got):\n%s", diff)
	}

	var count int
	s.db.QueryRow(`SELECT COUNT(*) FROM aliases WHERE username = 'alice'`).Scan(&count)
	if count != 1 {
		t.Errorf("expected one alias row for alice, got %d", count)
	}
}

func TestUpsertAlias_Validation(t *testing.T) {
	s := setupTestStore(t)

	if err := s.UpsertAlias(context.Background(), "", "x"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Movies == nil || snap.Queue == nil {
		t.Fatal("snapshot arrays must be non-nil")
	}

	a := addMovie(t, s, "A")
	b := addMovie(t, s, "B")
	addMovie(t, s, "C")
	s.Enqueue(ctx, b)
	s.Enqueue(ctx, a)

	snap, err = s.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Movies) != 3 {
		t.Errorf("expected 3 movies, got %d", len(snap.Movies))
	}
	if len(snap.Queue) != 2 || snap.Queue[0].ID != b || snap.Queue[1].ID != a {
		t.Errorf("unexpected queue: %+v", snap.Queue)
	}

	queue, _ := s.ListQueue(ctx)
	if diff := cmp.Diff(queue, snap.Queue); diff != "" {
		t.Errorf("snapshot queue differs from ListQueue (-list +snap):\n%s", diff)
	}
}
