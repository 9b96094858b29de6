package services

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/debt_ledger/internal/core/ports/services"
)

// AccrualSession owns the run-once flag of the automatic accrual sweep. The
// entry point creates one per process and hands it to whoever triggers the sweep.
type AccrualSession struct {
	mu      sync.Mutex
	ran     bool
	accrual portssvc.AccrualSvcFacade
}

// NewAccrualSession creates a session that has not swept yet.
func NewAccrualSession(accrual portssvc.AccrualSvcFacade) *AccrualSession {
	return &AccrualSession{accrual: accrual}
}

// HasRun reports whether the sweep already ran in this session.
func (s *AccrualSession) HasRun() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ran
}

// RunOnce sweeps all active debts the first time it is called and does nothing
// afterwards. The bool reports whether this call ran the sweep.
func (s *AccrualSession) RunOnce(ctx context.Context, asOf time.Time, userID string) ([]domain.AccrualRun, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ran {
		return nil, false
	}
	s.ran = true
	return s.accrual.AccrueAll(ctx, asOf, userID), true
}
