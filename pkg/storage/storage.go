// Package storage provides snapshot backends for the docnet store.
//
// A docnet store persists its whole graph as one serialized snapshot. This
// package abstracts where that snapshot lives behind the [Backend] interface,
// with implementations for different deployment shapes:
//   - [File]: a single file on disk (the default)
//   - [Memory]: in-process bytes for tests and ephemeral stores
//   - [Redis]: a single key in Redis
//   - [Mongo]: a single document in a MongoDB collection
//
// # Semantics
//
// Backends are whole-snapshot read/write only. There is no partial update,
// no locking, and no write atomicity guarantee beyond what the underlying
// system provides: concurrent writers follow a last-save-wins model.
//
// A backend with no snapshot yet reports [ErrNotFound] from Load; the store
// treats that as an empty database, not an error.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by [Backend.Load] when no snapshot exists yet.
var ErrNotFound = errors.New("snapshot not found")

// Backend reads and writes a single serialized snapshot.
type Backend interface {
	// Load returns the current snapshot bytes.
	// Returns ErrNotFound if no snapshot has been stored yet.
	Load(ctx context.Context) ([]byte, error)

	// Store overwrites the snapshot, creating any missing containing
	// structure (directories, collections) first.
	Store(ctx context.Context, data []byte) error

	// Close releases resources held by the backend.
	Close() error
}
