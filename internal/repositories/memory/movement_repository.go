package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
)

type movementRepository struct {
	store *Store
}

var _ portsrepo.MovementRepositoryFacade = (*movementRepository)(nil)

func (r *movementRepository) FindMovementByID(_ context.Context, movementID string) (*domain.Movement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, m := range r.store.data.movements {
		if m.MovementID == movementID {
			return &m, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *movementRepository) ListMovementsByDebt(_ context.Context, debtID string) ([]domain.Movement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.Movement
	for _, m := range r.store.data.movements {
		if m.DebtID == debtID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *movementRepository) AccrualPeriodExists(_ context.Context, debtID, periodKey string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.data.hasAccrual(debtID, periodKey), nil
}

func (r *movementRepository) ListAccrualPeriodKeys(_ context.Context, debtID string) (map[string]struct{}, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	keys := make(map[string]struct{})
	for _, m := range r.store.data.movements {
		if m.DebtID == debtID && m.Kind() == domain.MovementAccrual {
			keys[m.PeriodKey] = struct{}{}
		}
	}
	return keys, nil
}

func (s *state) hasAccrual(debtID, periodKey string) bool {
	for _, m := range s.movements {
		if m.DebtID == debtID && m.Kind() == domain.MovementAccrual && m.PeriodKey == periodKey {
			return true
		}
	}
	return false
}

func (r *movementRepository) SaveMovement(_ context.Context, movement domain.Movement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, m := range r.store.data.movements {
		if m.MovementID == movement.MovementID {
			return apperrors.ErrDuplicate
		}
	}
	if movement.Kind() == domain.MovementAccrual && r.store.data.hasAccrual(movement.DebtID, movement.PeriodKey) {
		return apperrors.ErrDuplicate
	}
	r.store.data.movements = append(r.store.data.movements, movement)
	return nil
}

func (r *movementRepository) UpdateMovementJournal(_ context.Context, movementID string, journalID *string, status domain.JournalLinkStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.data.movements {
		if r.store.data.movements[i].MovementID == movementID {
			r.store.data.movements[i].JournalID = journalID
			r.store.data.movements[i].JournalStatus = status
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *movementRepository) DeleteMovementsByDebt(_ context.Context, debtID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.data.movements[:0:0]
	for _, m := range r.store.data.movements {
		if m.DebtID != debtID {
			kept = append(kept, m)
		}
	}
	r.store.data.movements = kept
	return nil
}
