package app

import (
	"erp-backoffice/internal/core"

	"github.com/shopspring/decimal"
)

// TransactionResult is returned by transaction operations. TotalDebit and
// TotalCredit are the same sums the validator balanced against.
type TransactionResult struct {
	Transaction *core.Transaction `json:"transaction"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
}

type TransactionListResult struct {
	Transactions []TransactionResult `json:"transactions"`
}

type DocumentResult struct {
	Document *core.ItemizedDocument `json:"document"`
}

type DocumentListResult struct {
	Documents []core.ItemizedDocument `json:"documents"`
}
