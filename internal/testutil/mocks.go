// Package testutil provides shared mock implementations for tests across the
// codebase.
package testutil

import (
	"context"

	"feedlake/internal/domain"
)

// MockDDLHistory records DDL history inserts in memory.
type MockDDLHistory struct {
	InsertFn func(ctx context.Context, rec *domain.DDLRecord) error
	Records  []domain.DDLRecord // collected records for assertions
}

// Insert implements the history recorder for testing. Records are collected
// only when InsertFn is nil or succeeds.
func (m *MockDDLHistory) Insert(ctx context.Context, rec *domain.DDLRecord) error {
	if m.InsertFn != nil {
		if err := m.InsertFn(ctx, rec); err != nil {
			return err
		}
	}
	if rec.ID == "" {
		rec.ID = domain.NewID()
	}
	m.Records = append(m.Records, *rec)
	return nil
}
