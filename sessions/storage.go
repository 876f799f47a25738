package sessions

import "context"

// Well-known keys under which the session record is persisted.
const (
	KeySession      = "auth_user"
	KeyActiveTenant = "merchant_subdomain"
)

// Storage is the persistent key/value space a Store writes to.
// Get returns an error wrapping errors.ErrNotFound when the key is absent.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Scope returns a view of storage whose keys are prefixed with scope,
// so several browsers can share one backend without seeing each other's sessions.
func Scope(storage Storage, scope string) Storage {
	return scopedStorage{storage: storage, prefix: scope + ":"}
}

type scopedStorage struct {
	storage Storage
	prefix  string
}

func (s scopedStorage) Get(ctx context.Context, key string) ([]byte, error) {
	return s.storage.Get(ctx, s.prefix+key)
}

func (s scopedStorage) Set(ctx context.Context, key string, value []byte) error {
	return s.storage.Set(ctx, s.prefix+key, value)
}

func (s scopedStorage) Delete(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, s.prefix+key)
}
