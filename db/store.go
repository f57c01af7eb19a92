// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/danielhkuo/watchalong/models"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("movie not found")
	ErrEmptyQueue = errors.New("queue is empty")
)

// emptyRatings is the canonical serialization of a movie nobody has rated.
const emptyRatings = "{}"

// Store is the source of truth for movies, the watch queue and aliases.
// Queries use ordered $N placeholders, which both sqlite and postgres accept.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

const movieColumns = `id, name, watched, type, proposed_by, ratings, queue_position`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (models.Movie, error) {
	var m models.Movie
	var ratings string
	var position sql.NullInt64

	if err := row.Scan(&m.ID, &m.Name, &m.Watched, &m.Type, &m.ProposedBy, &ratings, &position); err != nil {
		return models.Movie{}, err
	}

	r, err := decodeRatings(ratings)
	if err != nil {
		return models.Movie{}, fmt.Errorf("movie %d: %w", m.ID, err)
	}
	m.Ratings = r

	if position.Valid {
		p := position.Int64
		m.QueuePosition = &p
	}

	return m, nil
}

// decodeRatings never returns a nil map.
func decodeRatings(raw string) (models.Ratings, error) {
	ratings := models.Ratings{}
	if raw == "" || raw == emptyRatings {
		return ratings, nil
	}
	if err := json.Unmarshal([]byte(raw), &ratings); err != nil {
		return nil, fmt.Errorf("failed to decode ratings: %w", err)
	}
	if ratings == nil {
		// stored literal null
		ratings = models.Ratings{}
	}
	return ratings, nil
}

func encodeRatings(ratings models.Ratings) (string, error) {
	if len(ratings) == 0 {
		return emptyRatings, nil
	}
	b, err := json.Marshal(ratings)
	if err != nil {
		return "", fmt.Errorf("failed to encode ratings: %w", err)
	}
	return string(b), nil
}

// CreateMovie inserts a movie with no ratings and no queue position and returns its id.
func (s *Store) CreateMovie(ctx context.Context, m models.NewMovie) (int64, error) {
	switch {
	case m.Name == "":
		return 0, fmt.Errorf("%w: name is required", ErrValidation)
	case m.Type == "":
		return 0, fmt.Errorf("%w: type is required", ErrValidation)
	case m.ProposedBy == "":
		return 0, fmt.Errorf("%w: proposed_by is required", ErrValidation)
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO movies (name, watched, type, proposed_by, ratings)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, m.Name, m.Watched, m.Type, m.ProposedBy, emptyRatings).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert movie: %w", err)
	}

	slog.Debug("movie inserted", "id", id, "name", m.Name)
	return id, nil
}

// GetMovie returns a single movie by id.
func (s *Store) GetMovie(ctx context.Context, id int64) (models.Movie, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = $1`, id)
	m, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Movie{}, ErrNotFound
	}
	if err != nil {
		return models.Movie{}, fmt.Errorf("failed to query movie: %w", err)
	}
	return m, nil
}

// ListMovies returns every movie in creation order.
func (s *Store) ListMovies(ctx context.Context) ([]models.Movie, error) {
	return s.queryMovies(ctx, `SELECT `+movieColumns+` FROM movies ORDER BY id ASC`)
}

// ListQueue returns queued movies, earliest position first.
func (s *Store) ListQueue(ctx context.Context) ([]models.Movie, error) {
	return s.queryMovies(ctx, `
		SELECT `+movieColumns+`
		FROM movies
		WHERE queue_position IS NOT NULL
		ORDER BY queue_position ASC
	`)
}

func (s *Store) queryMovies(ctx context.Context, query string, args ...any) ([]models.Movie, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	movies := []models.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read movies: %w", err)
	}

	return movies, nil
}

// Snapshot returns all movies and the queue derived from the same read, so the
// two halves can never disagree.
func (s *Store) Snapshot(ctx context.Context) (models.Snapshot, error) {
	movies, err := s.ListMovies(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}

	queue := []models.Movie{}
	for _, m := range movies {
		if m.QueuePosition != nil {
			queue = append(queue, m)
		}
	}
	sort.Slice(queue, func(i, j int) bool {
		return *queue[i].QueuePosition < *queue[j].QueuePosition
	})

	return models.Snapshot{Movies: movies, Queue: queue}, nil
}

// Enqueue appends a movie to the end of the queue and returns its new position.
// Positions are never reused; a movie already in the queue moves to the end.
func (s *Store) Enqueue(ctx context.Context, id int64) (int64, error) {
	var position int64
	err := s.db.QueryRowContext(ctx, `
		UPDATE movies
		SET queue_position = (SELECT COALESCE(MAX(queue_position), 0) + 1 FROM movies)
		WHERE id = $1
		RETURNING queue_position
	`, id).Scan(&position)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue movie: %w", err)
	}

	slog.Debug("movie enqueued", "id", id, "queue_position", position)
	return position, nil
}

// DequeueFront removes the movie at the head of the queue, marks it watched,
// and returns its id.
func (s *Store) DequeueFront(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `
		SELECT id
		FROM movies
		WHERE queue_position IS NOT NULL
		ORDER BY queue_position ASC
		LIMIT 1
	`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrEmptyQueue
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query queue head: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE movies
		SET queue_position = NULL, watched = TRUE
		WHERE id = $1
	`, id); err != nil {
		return 0, fmt.Errorf("failed to dequeue movie: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit dequeue: %w", err)
	}

	slog.Debug("movie dequeued", "id", id)
	return id, nil
}

// Rate sets username's rating on a movie, keeping everyone else's.
func (s *Store) Rate(ctx context.Context, id int64, username string, value json.RawMessage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx, `SELECT ratings FROM movies WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query ratings: %w", err)
	}

	ratings, err := decodeRatings(raw)
	if err != nil {
		return err
	}
	ratings[username] = value

	encoded, err := encodeRatings(ratings)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE movies SET ratings = $1 WHERE id = $2`, encoded, id); err != nil {
		return fmt.Errorf("failed to update ratings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rating: %w", err)
	}

	slog.Debug("movie rated", "id", id, "username", username)
	return nil
}

// UpsertAlias sets the display alias for a username, replacing any previous one.
func (s *Store) UpsertAlias(ctx context.Context, username, alias string) error {
	if username == "" || alias == "" {
		return fmt.Errorf("%w: username and alias are required", ErrValidation)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO aliases (username, alias)
		VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET alias = excluded.alias
	`, username, alias)
	if err != nil {
		return fmt.Errorf("failed to upsert alias: %w", err)
	}

	return nil
}

// ListAliases returns username -> alias.
func (s *Store) ListAliases(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT username, alias FROM aliases ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query aliases: %w", err)
	}
	defer rows.Close()

	aliases := map[string]string{}
	for rows.Next() {
		var a models.Alias
		if err := rows.Scan(&a.Username, &a.Alias); err != nil {
			return nil, fmt.Errorf("failed to scan alias: %w", err)
		}
		aliases[a.Username] = a.Alias
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read aliases: %w", err)
	}

	return aliases, nil
}
