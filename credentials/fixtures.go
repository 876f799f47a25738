package credentials

import (
	"context"
	"fmt"
)

type fixture struct {
	tenantID    string
	displayName string
	username    string
	password    string
}

// Built-in logins used while the portal runs against the in-process gateway.
// TODO: replace with per-tenant credential management from the admin area once the backend exposes it.
var fixtures = []fixture{
	{AdminTenantID, "Geidea Admin", "geidea_admin", "Geidea@2025!"},
	{"al-rajhi-markets", "Al Rajhi Markets", "alrajhi_admin", "AlRajhi@2025!"},
	{"kudu-restaurant", "Kudu Restaurant", "kudu_admin", "Kudu@2025!"},
	{"mash", "Mash Restaurant", "mash_admin", "Mash@2025!"},
}

// Seed writes the built-in credential records into repo, replacing existing ones.
func Seed(ctx context.Context, repo Repo, cost int) error {
	for _, f := range fixtures {
		record, err := NewRecord(f.tenantID, f.displayName, f.username, f.password, cost)
		if err != nil {
			return fmt.Errorf("[credentials Seed] %w", err)
		}
		if err := repo.Upsert(ctx, record); err != nil {
			return fmt.Errorf("[credentials Seed] upsert %q: %w", f.tenantID, err)
		}
	}
	return nil
}
