package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/debt_ledger/internal/core/ports/services"
)

type reconciliationService struct {
	debtEngine
}

// NewReconciliationService creates the movement/journal reconciliation checker.
func NewReconciliationService(deps DebtDeps) portssvc.ReconciliationSvc {
	return &reconciliationService{debtEngine{DebtDeps: deps}}
}

var _ portssvc.ReconciliationSvc = (*reconciliationService)(nil)

func (s *reconciliationService) Reconcile(ctx context.Context, debtID string, repair bool, userID string) (*domain.ReconciliationReport, error) {
	debt, err := s.Repos.DebtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		return nil, err
	}
	movements, err := s.Repos.MovementRepo.ListMovementsByDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}
	journals, err := s.Repos.JournalRepo.ListJournalsByDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Journal, len(journals))
	byMovement := make(map[string][]domain.Journal)
	for _, j := range journals {
		byID[j.JournalID] = j
		if j.MovementID != nil {
			byMovement[*j.MovementID] = append(byMovement[*j.MovementID], j)
		}
	}

	report := &domain.ReconciliationReport{DebtID: debt.DebtID}
	for _, m := range movements {
		item := classify(m, byMovement[m.MovementID], byID)
		if repair && item.Status == domain.ReconMissing {
			journalID, err := s.repost(ctx, debtID, m.MovementID, userID)
			if err != nil {
				s.LogError(ctx, err, "Repair failed, leaving movement unposted",
					slog.String("debt_id", debtID),
					slog.String("movement_id", m.MovementID))
			} else {
				item.Status = domain.ReconOK
				item.JournalIDs = []string{journalID}
				item.Detail = "re-posted"
				report.Repaired++
			}
		}
		report.Items = append(report.Items, item)
	}

	s.LogInfo(ctx, "Debt reconciled",
		slog.String("debt_id", debtID),
		slog.Int("movements", len(movements)),
		slog.Int("ok", report.Count(domain.ReconOK)),
		slog.Int("missing", report.Count(domain.ReconMissing)),
		slog.Int("mismatched", report.Count(domain.ReconMismatch)),
		slog.Int("repaired", report.Repaired))
	return report, nil
}

// classify checks one movement against the entries that point back at it.
func classify(m domain.Movement, linked []domain.Journal, byID map[string]domain.Journal) domain.ReconciliationItem {
	item := domain.ReconciliationItem{MovementID: m.MovementID, Kind: m.Kind()}
	for _, j := range linked {
		item.JournalIDs = append(item.JournalIDs, j.JournalID)
	}

	if !m.AutoJournal {
		item.Status = domain.ReconNotApplicable
		if len(linked) > 0 {
			item.Status = domain.ReconMismatch
			item.Detail = "entry posted for a movement that requested none"
		}
		return item
	}

	switch {
	case len(linked) == 0:
		item.Status = domain.ReconMissing
		if m.JournalID != nil {
			if _, ok := byID[*m.JournalID]; ok {
				item.Status = domain.ReconMismatch
				item.JournalIDs = []string{*m.JournalID}
				item.Detail = "linked entry does not point back at the movement"
			}
		}
	case len(linked) > 1:
		item.Status = domain.ReconMismatch
		item.Detail = "more than one entry posted"
	case !linked[0].IsBalanced():
		item.Status = domain.ReconMismatch
		item.Detail = "entry is not balanced"
	case m.JournalID == nil || *m.JournalID != linked[0].JournalID:
		item.Status = domain.ReconMismatch
		item.Detail = "movement is not linked to its entry"
	default:
		item.Status = domain.ReconOK
	}
	return item
}

// repost posts a MISSING movement again and restores its journal link.
func (s *reconciliationService) repost(ctx context.Context, debtID, movementID, userID string) (string, error) {
	var journalID string
	err := s.TxManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		debt, err := repos.DebtRepo.FindDebtByID(ctx, debtID)
		if err != nil {
			return err
		}
		m, err := repos.MovementRepo.FindMovementByID(ctx, movementID)
		if err != nil {
			return err
		}
		journal, err := s.Poster.PostMovement(ctx, repos, debt, m, userID)
		if err != nil {
			return err
		}
		journalID = journal.JournalID
		if err := repos.MovementRepo.UpdateMovementJournal(ctx, movementID, &journalID, domain.JournalGenerated); err != nil {
			return err
		}
		if _, ok := m.Details.(domain.OriginationDetails); ok {
			debt.OriginationJournalIDs = uniqueStrings(append(debt.OriginationJournalIDs, journalID))
			s.Touch(&debt.AuditFields, userID)
			return repos.DebtRepo.UpdateDebt(ctx, *debt)
		}
		return nil
	})
	return journalID, err
}
