package ports

import "context"

// SecretStore keeps credentials (the session token) out of plain config
// files.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
