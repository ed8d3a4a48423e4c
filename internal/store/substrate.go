package store

import "context"

// Revision describes the last write of one key. Number increases on every Set.
type Revision struct {
	Number int64
	Origin string
}

// Substrate is the durable key-value primitive shared by all contexts.
// Get returns ErrNotFound for absent keys. Set records origin as the writer.
type Substrate interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, origin string) error
	Revisions(ctx context.Context) (map[string]Revision, error)
}
