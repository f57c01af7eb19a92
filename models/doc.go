// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - AddMovieRequest: name, watched, type, proposed_by
  - RateMovieRequest: movieID, rating, username
  - SetAliasRequest: username, alias
  - EnqueueRequest: id

AddMovieRequest.Watched is a pointer so a missing field can be told apart
from false. RateMovieRequest.Rating is kept raw: any JSON value is accepted
and stored as given.

# Domain Types

  - Movie: a proposed movie with ratings and optional queue position
  - Ratings: username → rating value
  - Alias: username → display alias
  - Snapshot: full state pushed to live connections

A nil Movie.QueuePosition means the movie is not queued.

# Constants

The single live-update topic:

	Topic = "watchalong"
*/
package models
