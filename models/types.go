package models

import "encoding/json"

// Topic is the broadcast group every live connection joins.
const Topic = "watchalong"

// Request types

// Pointer and raw fields distinguish "absent" from a zero value.
type AddMovieRequest struct {
	Name       string `json:"name"`
	Watched    *bool  `json:"watched"`
	Type       string `json:"type"`
	ProposedBy string `json:"proposed_by"`
}

type RateMovieRequest struct {
	MovieID  int64           `json:"movieID"`
	Rating   json.RawMessage `json:"rating"`
	Username string          `json:"username"`
}

type SetAliasRequest struct {
	Username string `json:"username"`
	Alias    string `json:"alias"`
}

type EnqueueRequest struct {
	ID int64 `json:"id"`
}

// Domain types

// Ratings maps username -> caller-supplied rating value.
type Ratings map[string]json.RawMessage

type Movie struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Watched       bool    `json:"watched"`
	Type          string  `json:"type"`
	ProposedBy    string  `json:"proposed_by"`
	Ratings       Ratings `json:"ratings"`
	QueuePosition *int64  `json:"queue_position"`
}

// NewMovie carries the fields a client supplies when proposing a movie.
type NewMovie struct {
	Name       string
	Watched    bool
	Type       string
	ProposedBy string
}

type Alias struct {
	Username string `json:"username"`
	Alias    string `json:"alias"`
}

// Snapshot is the only message pushed over live connections.
type Snapshot struct {
	Movies []Movie `json:"movies"`
	Queue  []Movie `json:"queue"`
}
