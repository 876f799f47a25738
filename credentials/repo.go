package credentials

import "context"

// Repo stores credential records keyed by tenant id (AdminTenantID for the admin record).
// Get returns an error wrapping errors.ErrNotFound for unknown tenants.
type Repo interface {
	Upsert(ctx context.Context, record *Record) error
	Get(ctx context.Context, tenantID string) (*Record, error)
	Delete(ctx context.Context, tenantID string) error
	List(ctx context.Context) ([]*Record, error)
}
