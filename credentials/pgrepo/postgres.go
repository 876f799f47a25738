package pgrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jrsteele09/merchant-portal/credentials"
	apperrors "github.com/jrsteele09/merchant-portal/internal/errors"
	"github.com/jrsteele09/merchant-portal/sessions"
)

var _ credentials.Repo = (*Repo)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS portal_credentials (
	tenant_id     TEXT PRIMARY KEY,
	role          TEXT NOT NULL,
	display_name  TEXT NOT NULL,
	username_hash TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Repo keeps credential records in a Postgres table. The admin record uses an empty tenant_id.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Connect opens a pool for databaseURL and makes sure the credential table exists.
func Connect(ctx context.Context, databaseURL string) (*Repo, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("[pgrepo Connect] %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("[pgrepo Connect] ping: %w", err)
	}
	r := New(pool)
	if err := r.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() {
	r.pool.Close()
}

func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("[pgrepo EnsureSchema] %w", err)
	}
	return nil
}

func (r *Repo) Upsert(ctx context.Context, record *credentials.Record) error {
	const q = `
INSERT INTO portal_credentials (tenant_id, role, display_name, username_hash, password_hash)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (tenant_id) DO UPDATE SET
	role = EXCLUDED.role,
	display_name = EXCLUDED.display_name,
	username_hash = EXCLUDED.username_hash,
	password_hash = EXCLUDED.password_hash,
	updated_at = now()`

	_, err := r.pool.Exec(ctx, q, record.TenantID, string(record.Role), record.DisplayName, record.UsernameHash, record.PasswordHash)
	if err != nil {
		return fmt.Errorf("[pgrepo Upsert] %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, tenantID string) (*credentials.Record, error) {
	const q = `
SELECT tenant_id, role, display_name, username_hash, password_hash
FROM portal_credentials WHERE tenant_id = $1`

	record, err := scanRecord(r.pool.QueryRow(ctx, q, tenantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("credential record for %q: %w", tenantID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("[pgrepo Get] %w", err)
	}
	return record, nil
}

func (r *Repo) Delete(ctx context.Context, tenantID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM portal_credentials WHERE tenant_id = $1`, tenantID); err != nil {
		return fmt.Errorf("[pgrepo Delete] %w", err)
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]*credentials.Record, error) {
	const q = `
SELECT tenant_id, role, display_name, username_hash, password_hash
FROM portal_credentials ORDER BY tenant_id`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("[pgrepo List] %w", err)
	}
	defer rows.Close()

	var records []*credentials.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("[pgrepo List] scan: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("[pgrepo List] %w", err)
	}
	return records, nil
}

func scanRecord(row pgx.Row) (*credentials.Record, error) {
	var (
		record credentials.Record
		role   string
	)
	if err := row.Scan(&record.TenantID, &role, &record.DisplayName, &record.UsernameHash, &record.PasswordHash); err != nil {
		return nil, err
	}
	record.Role = sessions.Role(role)
	return &record, nil
}
