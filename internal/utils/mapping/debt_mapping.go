package mapping

import (
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	"github.com/SscSPs/debt_ledger/internal/models"
)

// ToModelDebt converts a domain Debt to a model Debt and its installment rows.
func ToModelDebt(d domain.Debt) (models.Debt, []models.Installment) {
	m := models.Debt{
		DebtID:                d.DebtID,
		Description:           d.Description,
		Creditor:              d.Creditor,
		CurrencyCode:          d.CurrencyCode,
		Principal:             d.Principal,
		OriginationRate:       d.OriginationRate,
		RecordedRate:          d.RecordedRate,
		OriginationDate:       d.OriginationDate,
		FirstDueDate:          d.FirstDueDate,
		AnnualRate:            d.AnnualRate,
		InstallmentCount:      d.InstallmentCount,
		Frequency:             string(d.Frequency),
		System:                string(d.System),
		OutstandingBalance:    d.OutstandingBalance,
		PaidInstallments:      d.PaidInstallments,
		Status:                string(d.Status),
		LiabilityAccountID:    nullable(d.LiabilityAccountID),
		OriginationJournalIDs: d.OriginationJournalIDs,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
	if m.OriginationJournalIDs == nil {
		m.OriginationJournalIDs = []string{}
	}

	rows := make([]models.Installment, len(d.Schedule))
	for i, inst := range d.Schedule {
		rows[i] = models.Installment{
			DebtID:   d.DebtID,
			Number:   inst.Number,
			DueDate:  inst.DueDate,
			Capital:  inst.Capital,
			Interest: inst.Interest,
			Total:    inst.Total,
			Paid:     inst.Paid,
			PaidAt:   inst.PaidAt,
		}
	}
	return m, rows
}

// ToDomainDebt converts a model Debt and its installment rows to a domain Debt.
func ToDomainDebt(m models.Debt, rows []models.Installment) domain.Debt {
	d := domain.Debt{
		DebtID:                m.DebtID,
		Description:           m.Description,
		Creditor:              m.Creditor,
		CurrencyCode:          m.CurrencyCode,
		Principal:             m.Principal,
		OriginationRate:       m.OriginationRate,
		RecordedRate:          m.RecordedRate,
		OriginationDate:       m.OriginationDate,
		FirstDueDate:          m.FirstDueDate,
		AnnualRate:            m.AnnualRate,
		InstallmentCount:      m.InstallmentCount,
		Frequency:             domain.Frequency(m.Frequency),
		System:                domain.AmortizationSystem(m.System),
		OutstandingBalance:    m.OutstandingBalance,
		PaidInstallments:      m.PaidInstallments,
		Status:                domain.DebtStatus(m.Status),
		LiabilityAccountID:    deref(m.LiabilityAccountID),
		OriginationJournalIDs: m.OriginationJournalIDs,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
		Schedule:              make([]domain.Installment, len(rows)),
	}
	for i, r := range rows {
		d.Schedule[i] = domain.Installment{
			Number:   r.Number,
			DueDate:  r.DueDate,
			Capital:  r.Capital,
			Interest: r.Interest,
			Total:    r.Total,
			Paid:     r.Paid,
			PaidAt:   r.PaidAt,
		}
	}
	return d
}
