package storage

import "context"

// KeyValueStore is the durable client-side state shared by the submission
// workflow (pending flags) and the session layer (token and user record). It is
// injected instead of accessed as ambient global state so the flag lifecycle is
// testable without a real store behind it.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
