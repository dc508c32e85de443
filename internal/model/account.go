// Package model defines the core domain types for the budgeteer application.
package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType identifies the kind of financial account.
type AccountType string

// Supported account types.
const (
	AccountTypeChecking                AccountType = "checking"
	AccountTypeCreditCard              AccountType = "credit_card"
	AccountTypeSavings                 AccountType = "savings"
	AccountTypeCash                    AccountType = "cash"
	AccountTypeInvestment              AccountType = "investment"
	AccountTypeLoan                    AccountType = "loan"
	AccountTypeBrokerage               AccountType = "brokerage"
	AccountTypeCashManagementBrokerage AccountType = "cash_management_brokerage"
	AccountTypeOther                   AccountType = "other"
)

// AccountTypes lists every valid account type in display order.
var AccountTypes = []AccountType{
	AccountTypeChecking,
	AccountTypeCreditCard,
	AccountTypeSavings,
	AccountTypeCash,
	AccountTypeInvestment,
	AccountTypeLoan,
	AccountTypeBrokerage,
	AccountTypeCashManagementBrokerage,
	AccountTypeOther,
}

// DisplayName returns a human-readable name for the account type.
func (t AccountType) DisplayName() string {
	switch t {
	case AccountTypeChecking:
		return "Checking Account"
	case AccountTypeCreditCard:
		return "Credit Card"
	case AccountTypeSavings:
		return "Savings Account"
	case AccountTypeCash:
		return "Cash"
	case AccountTypeInvestment:
		return "Investment Account"
	case AccountTypeLoan:
		return "Loan"
	case AccountTypeBrokerage:
		return "Brokerage Account"
	case AccountTypeCashManagementBrokerage:
		return "Cash Management Brokerage Account"
	case AccountTypeOther:
		return "Other"
	default:
		return string(t)
	}
}

// IsValid reports whether the account type is one of the known values.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeCreditCard, AccountTypeSavings,
		AccountTypeCash, AccountTypeInvestment, AccountTypeLoan,
		AccountTypeBrokerage, AccountTypeCashManagementBrokerage, AccountTypeOther:
		return true
	default:
		return false
	}
}

// ParseAccountType converts user input into an AccountType. Input is matched
// case-insensitively with spaces and dashes treated as underscores.
func ParseAccountType(s string) (AccountType, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)

	t := AccountType(normalized)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown account type %q", s)
	}
	return t, nil
}

// Account is a single financial account. Balance always equals the net signed
// sum of every transaction posted against the account; it is maintained
// incrementally by the posting engine and never recomputed.
type Account struct {
	ID      int64
	Name    string
	Type    AccountType
	Balance decimal.Decimal
}
