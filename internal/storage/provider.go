// Package storage defines the collection-file abstraction: one JSON array
// per resource type under a data directory.
package storage

import "time"

// CollectionMetadata describes one persisted collection file.
type CollectionMetadata struct {
	Name      string
	Checksum  string
	UpdatedAt time.Time
}

// Provider is the interface for collection file operations.
type Provider interface {
	// List returns metadata for every collection file under the data root.
	List() ([]CollectionMetadata, error)
	// Read returns the raw bytes of the named collection.
	// A missing collection yields an error satisfying errors.Is(err, os.ErrNotExist).
	Read(name string) ([]byte, error)
	// Write atomically replaces the named collection.
	Write(name string, data []byte) error
	// Delete removes the named collection file.
	Delete(name string) error
}
