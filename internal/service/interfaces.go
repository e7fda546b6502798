// Package service defines the interfaces shared between the ledger and its backends.
package service

import "context"

// RecordStore persists named JSON records. It is the only medium the ledger
// writes to; every record holds one serialized collection or object.
type RecordStore interface {
	// Get returns the raw record and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put writes every supplied record atomically.
	Put(ctx context.Context, records map[string][]byte) error

	Migrate(ctx context.Context) error
	Close() error
}
