package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a game has not been started.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrSessionComplete is returned when answering a finished game.
	ErrSessionComplete = errors.New("game session already complete")
	// ErrUnknownLevel indicates an unrecognized difficulty level.
	ErrUnknownLevel = errors.New("unknown difficulty level")
	// ErrUnauthorized indicates a missing or invalid bearer token.
	ErrUnauthorized = errors.New("missing or invalid bearer token")
)
