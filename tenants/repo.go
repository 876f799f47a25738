package tenants

// Repo is the tenant directory. Get returns an error wrapping errors.ErrTenantNotFound for unknown ids.
type Repo interface {
	Upsert(tenantData *Tenant) error
	Delete(tenantID string) error
	Get(tenantID string) (*Tenant, error)
	List(offset, limit int) ([]*Tenant, error)
}

// Name returns the display name of tenantID, derived from the id when the directory has none.
func Name(repo Repo, tenantID string) string {
	if repo != nil {
		if t, err := repo.Get(tenantID); err == nil && t.Name != "" {
			return t.Name
		}
	}
	return DisplayName(tenantID)
}
