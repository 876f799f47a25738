package fakecredentialrepo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jrsteele09/merchant-portal/credentials"
	apperrors "github.com/jrsteele09/merchant-portal/internal/errors"
)

var _ credentials.Repo = (*FakeCredentialRepo)(nil)

type FakeCredentialRepo struct {
	records map[string]credentials.Record // tenantID -> record
	lock    sync.RWMutex
}

func NewFakeCredentialRepo() *FakeCredentialRepo {
	return &FakeCredentialRepo{
		records: make(map[string]credentials.Record),
	}
}

func (cr *FakeCredentialRepo) Upsert(_ context.Context, record *credentials.Record) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	cr.records[record.TenantID] = *record
	return nil
}

func (cr *FakeCredentialRepo) Get(_ context.Context, tenantID string) (*credentials.Record, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	record, ok := cr.records[tenantID]
	if !ok {
		return nil, fmt.Errorf("credential record for %q: %w", tenantID, apperrors.ErrNotFound)
	}
	return &record, nil
}

func (cr *FakeCredentialRepo) Delete(_ context.Context, tenantID string) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	delete(cr.records, tenantID)
	return nil
}

func (cr *FakeCredentialRepo) List(_ context.Context) ([]*credentials.Record, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	records := make([]*credentials.Record, 0, len(cr.records))
	for _, r := range cr.records {
		record := r
		records = append(records, &record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].TenantID < records[j].TenantID
	})
	return records, nil
}
