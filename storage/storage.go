package storage

import (
	"context"
	"io"
)

// Store persists uploaded payment proofs. Callers only hold the opaque
// reference returned by Save; Delete is the compensation path when a database
// step fails after the file was written.
type Store interface {
	Save(ctx context.Context, r io.Reader, originalName string) (ref string, err error)
	Delete(ctx context.Context, ref string) error
	// URL returns an address the stored file can be fetched from
	URL(ref string) string
}
