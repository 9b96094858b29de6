package config

import (
	"fmt"
	"os"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	"gopkg.in/yaml.v3"
)

// RoleRule tells the account resolver where to look for a posting role: first
// the structured code, then each synonym as an exact name, then as a substring.
type RoleRule struct {
	Code     string   `yaml:"code"`
	Synonyms []string `yaml:"synonyms"`
}

// AccountMap binds every posting role to its resolution rule.
type AccountMap map[domain.AccountRole]RoleRule

type accountMapFile struct {
	Roles AccountMap `yaml:"roles"`
}

// DefaultAccountMap is used when no map file is configured.
func DefaultAccountMap() AccountMap {
	return AccountMap{
		domain.RoleCash:            {Code: "1.1.01", Synonyms: []string{"Cash", "Caja"}},
		domain.RoleLoanLiability:   {Code: "2.1.03", Synonyms: []string{"Loans Payable", "Préstamos a pagar"}},
		domain.RoleAccruedInterest: {Code: "2.1.04", Synonyms: []string{"Accrued Interest Payable", "Intereses a pagar"}},
		domain.RoleExchangeGain:    {Code: "4.2.01", Synonyms: []string{"Exchange Gain", "Diferencia de cambio positiva"}},
		domain.RoleInterestExpense: {Code: "5.2.01", Synonyms: []string{"Interest Expense", "Intereses perdidos"}},
		domain.RoleExchangeLoss:    {Code: "5.2.02", Synonyms: []string{"Exchange Loss", "Diferencia de cambio negativa"}},
	}
}

// LoadAccountMap reads a YAML file of the form
//
//	roles:
//	  LOAN_LIABILITY:
//	    code: "2.1.03"
//	    synonyms: ["Loans Payable"]
//
// Roles missing from the file keep their defaults.
func LoadAccountMap(path string) (AccountMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read account map %s: %w", path, err)
	}
	return ParseAccountMap(raw)
}

// ParseAccountMap decodes YAML account-map content over the defaults.
func ParseAccountMap(raw []byte) (AccountMap, error) {
	var file accountMapFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse account map: %w", err)
	}

	merged := DefaultAccountMap()
	for role, rule := range file.Roles {
		if _, known := merged[role]; !known {
			return nil, fmt.Errorf("unknown account role %q in account map", role)
		}
		merged[role] = rule
	}
	return merged, nil
}
