package apperrors

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError reports bad caller input. It is raised before any state is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Reason
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid is shorthand for a field-scoped ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// UnsupportedConfigurationError is returned when a frequency or amortization system is unknown.
type UnsupportedConfigurationError struct {
	Setting string
	Value   string
}

func (e *UnsupportedConfigurationError) Error() string {
	return fmt.Sprintf("unsupported %s %q", e.Setting, e.Value)
}

func (e *UnsupportedConfigurationError) Is(target error) bool {
	return target == ErrValidation
}

// UnresolvedAccountError means no account matched any strategy for a posting role.
type UnresolvedAccountError struct {
	Role string
}

func (e *UnresolvedAccountError) Error() string {
	return fmt.Sprintf("no account resolved for role %s", e.Role)
}

// UnbalancedEntryError is raised by the journal poster when debits and credits differ
// or the line set is malformed.
type UnbalancedEntryError struct {
	Debits  decimal.Decimal
	Credits decimal.Decimal
	Reason  string
}

func (e *UnbalancedEntryError) Error() string {
	if e.Reason != "" {
		return "unbalanced journal entry: " + e.Reason
	}
	return fmt.Sprintf("unbalanced journal entry: debits %s, credits %s", e.Debits.StringFixed(2), e.Credits.StringFixed(2))
}

// DuplicateAccrualError means the accrual period key was already posted for the debt.
type DuplicateAccrualError struct {
	DebtID    string
	PeriodKey string
}

func (e *DuplicateAccrualError) Error() string {
	return fmt.Sprintf("accrual for period %s already posted on debt %s", e.PeriodKey, e.DebtID)
}

func (e *DuplicateAccrualError) Is(target error) bool {
	return target == ErrDuplicate
}
