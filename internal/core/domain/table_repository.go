package domain

import "context"

// TableRepository is a source of the habit table.
type TableRepository interface {
	// Version returns a fingerprint that changes whenever the underlying data changes.
	// Caches key on it.
	Version(ctx context.Context) (string, error)

	// Load reads and parses the whole table.
	Load(ctx context.Context) (*Table, error)
}
