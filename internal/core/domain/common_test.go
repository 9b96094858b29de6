package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestAuditFields_Touch(t *testing.T) {
	created := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	fields := domain.NewAuditFields("alice", created)
	assert.Equal(t, created, fields.LastUpdatedAt)
	assert.Equal(t, "alice", fields.LastUpdatedBy)

	later := created.Add(48 * time.Hour)
	fields.Touch(domain.SystemUserID, later)

	assert.Equal(t, created, fields.CreatedAt)
	assert.Equal(t, "alice", fields.CreatedBy)
	assert.Equal(t, later, fields.LastUpdatedAt)
	assert.Equal(t, domain.SystemUserID, fields.LastUpdatedBy)
}
