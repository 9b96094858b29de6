package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtStatus is the lifecycle state of a debt.
type DebtStatus string

const (
	DebtActive    DebtStatus = "ACTIVE"
	DebtPaid      DebtStatus = "PAID"
	DebtCancelled DebtStatus = "CANCELLED"
)

// Frequency is how often installments fall due.
type Frequency string

const (
	Monthly    Frequency = "MONTHLY"
	Bimonthly  Frequency = "BIMONTHLY"
	Quarterly  Frequency = "QUARTERLY"
	Semiannual Frequency = "SEMIANNUAL"
	Annual     Frequency = "ANNUAL"
	Single     Frequency = "SINGLE"
)

// MonthsPerPeriod returns the months between installments. SINGLE has no fixed
// period and reports false; callers derive it from the debt's dates.
func (f Frequency) MonthsPerPeriod() (int, bool) {
	switch f {
	case Monthly:
		return 1, true
	case Bimonthly:
		return 2, true
	case Quarterly:
		return 3, true
	case Semiannual:
		return 6, true
	case Annual:
		return 12, true
	}
	return 0, false
}

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	_, ok := f.MonthsPerPeriod()
	return ok || f == Single
}

// AmortizationSystem decides how each installment splits between capital and interest.
type AmortizationSystem string

const (
	French   AmortizationSystem = "FRENCH"
	German   AmortizationSystem = "GERMAN"
	American AmortizationSystem = "AMERICAN"
	Bullet   AmortizationSystem = "BULLET"
)

// Valid reports whether s is a known system.
func (s AmortizationSystem) Valid() bool {
	switch s {
	case French, German, American, Bullet:
		return true
	}
	return false
}

// Installment is one scheduled row. Once Paid it must not change.
type Installment struct {
	Number   int             `json:"number"`
	DueDate  time.Time       `json:"dueDate"`
	Capital  decimal.Decimal `json:"capital"`
	Interest decimal.Decimal `json:"interest"`
	Total    decimal.Decimal `json:"total"`
	Paid     bool            `json:"paid"`
	PaidAt   *time.Time      `json:"paidAt,omitempty"`
}

// Debt is a financial obligation denominated in CurrencyCode.
type Debt struct {
	DebtID             string             `json:"debtID"`
	Description        string             `json:"description"`
	Creditor           string             `json:"creditor"`
	CurrencyCode       string             `json:"currencyCode"`
	Principal          decimal.Decimal    `json:"principal"`       // Debt currency
	OriginationRate    decimal.Decimal    `json:"originationRate"` // 1 for functional-currency debts
	RecordedRate       decimal.Decimal    `json:"recordedRate"`    // Last revaluation checkpoint
	OriginationDate    time.Time          `json:"originationDate"`
	FirstDueDate       time.Time          `json:"firstDueDate"`
	AnnualRate         decimal.Decimal    `json:"annualRate"` // Nominal, as a fraction (0.24 = 24%)
	InstallmentCount   int                `json:"installmentCount"`
	Frequency          Frequency          `json:"frequency"`
	System             AmortizationSystem `json:"system"`
	Schedule           []Installment      `json:"schedule"`
	OutstandingBalance decimal.Decimal    `json:"outstandingBalance"` // Debt currency
	PaidInstallments   int                `json:"paidInstallments"`
	Status             DebtStatus         `json:"status"`
	LiabilityAccountID string             `json:"liabilityAccountID,omitempty"`
	// OriginationJournalIDs back-links the entries created when the debt was recorded.
	OriginationJournalIDs []string `json:"originationJournalIDs,omitempty"`
	AuditFields
}

// IsInterestBearing reports whether accrual applies to the debt.
func (d *Debt) IsInterestBearing() bool {
	return d.AnnualRate.IsPositive() && d.System != Bullet
}

// Maturity returns the final due date from the schedule, or first due date plus
// count × period when no schedule is stored.
func (d *Debt) Maturity() time.Time {
	if n := len(d.Schedule); n > 0 {
		return d.Schedule[n-1].DueDate
	}
	months, ok := d.Frequency.MonthsPerPeriod()
	if !ok {
		months = MonthsBetween(d.OriginationDate, d.FirstDueDate)
	}
	return AddMonths(d.FirstDueDate, months*d.InstallmentCount)
}

// NextUnpaidInstallment returns the index of the first installment not yet paid.
func (d *Debt) NextUnpaidInstallment() (int, bool) {
	for i := range d.Schedule {
		if !d.Schedule[i].Paid {
			return i, true
		}
	}
	return -1, false
}

// AddMonths advances t by n calendar months, clamping the day to the target month's
// last day so Jan 31 + 1 month is Feb 28/29 rather than March 2/3.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// MonthsBetween counts whole months from a to b, never less than 1.
func MonthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	if months < 1 {
		return 1
	}
	return months
}
