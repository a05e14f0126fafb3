package broker

import "go.bryk.io/routebroker/errors"

// Errors returned by the broker's exported API. See spec.md §7 for the
// error handling policy these implement.
var (
	// ErrInvalidConfig is returned by New when constructed with a nil
	// Codec or a non-positive number of priority levels.
	ErrInvalidConfig = errors.New("invalid broker configuration")

	// ErrInvalidClientName is returned by CreateClient for an empty name.
	ErrInvalidClientName = errors.New("client name must not be empty")

	// ErrClientExists is returned by CreateClient when a client with the
	// same name is already registered.
	ErrClientExists = errors.New("client already exists")

	// ErrUnknownClient is returned by Client/DeleteClient for a name that
	// was never created (or already deleted) — distinct from publishing a
	// delete for an unknown topic key, which is a silent no-op.
	ErrUnknownClient = errors.New("unknown client")

	// ErrClientClosed is returned by a blocked GetNext call when its
	// client is deleted concurrently.
	ErrClientClosed = errors.New("client was deleted")

	// ErrNotEmpty is returned by Close when live clients or live records
	// remain; callers must drain clients first.
	ErrNotEmpty = errors.New("broker is not empty")
)
