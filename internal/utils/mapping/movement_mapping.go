package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	"github.com/SscSPs/debt_ledger/internal/models"
)

// ToModelMovement converts a domain Movement to a model Movement, encoding its
// payload as JSON.
func ToModelMovement(d domain.Movement) (models.Movement, error) {
	if d.Details == nil {
		return models.Movement{}, fmt.Errorf("movement %s has no details", d.MovementID)
	}
	details, err := json.Marshal(d.Details)
	if err != nil {
		return models.Movement{}, fmt.Errorf("failed to encode %s details: %w", d.Kind(), err)
	}
	return models.Movement{
		MovementID:       d.MovementID,
		DebtID:           d.DebtID,
		Kind:             string(d.Kind()),
		MovementDate:     d.Date,
		Amount:           d.Amount,
		ExchangeRate:     d.ExchangeRate,
		FunctionalAmount: d.FunctionalAmount,
		PeriodKey:        nullable(d.PeriodKey),
		AutoJournal:      d.AutoJournal,
		JournalID:        d.JournalID,
		JournalStatus:    string(d.JournalStatus),
		Details:          details,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainMovement converts a model Movement to a domain Movement, decoding the
// payload into the struct that matches its kind.
func ToDomainMovement(m models.Movement) (domain.Movement, error) {
	details, err := DecodeMovementDetails(domain.MovementKind(m.Kind), m.Details)
	if err != nil {
		return domain.Movement{}, fmt.Errorf("movement %s: %w", m.MovementID, err)
	}
	return domain.Movement{
		MovementID:       m.MovementID,
		DebtID:           m.DebtID,
		Date:             m.MovementDate,
		Amount:           m.Amount,
		ExchangeRate:     m.ExchangeRate,
		FunctionalAmount: m.FunctionalAmount,
		PeriodKey:        deref(m.PeriodKey),
		AutoJournal:      m.AutoJournal,
		JournalID:        m.JournalID,
		JournalStatus:    domain.JournalLinkStatus(m.JournalStatus),
		Details:          details,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}, nil
}

// DecodeMovementDetails unmarshals raw into the payload type for kind.
func DecodeMovementDetails(kind domain.MovementKind, raw []byte) (domain.MovementDetails, error) {
	switch kind {
	case domain.MovementOrigination:
		return decodeAs[domain.OriginationDetails](raw)
	case domain.MovementDisbursement:
		return decodeAs[domain.DisbursementDetails](raw)
	case domain.MovementPayment:
		return decodeAs[domain.PaymentDetails](raw)
	case domain.MovementAccrual:
		return decodeAs[domain.AccrualDetails](raw)
	case domain.MovementRevaluation:
		return decodeAs[domain.RevaluationDetails](raw)
	case domain.MovementRefinancing:
		return decodeAs[domain.RefinancingDetails](raw)
	case domain.MovementWalletWithdrawal:
		return decodeAs[domain.WalletDetails](raw)
	}
	return nil, fmt.Errorf("unknown movement kind %q", kind)
}

func decodeAs[T domain.MovementDetails](raw []byte) (domain.MovementDetails, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to decode %T: %w", v, err)
	}
	return v, nil
}
