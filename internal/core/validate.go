package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Rules is the per-kind validation configuration. One validator serves all
// four document kinds; the differences between them live here.
type Rules struct {
	MinLines        int
	MutualExclusion bool // exactly one of debit/credit per line, totals must balance
	QuantityPrice   bool // lines carry quantity and unit price
	PriceOverride   bool // unit price may be entered manually instead of derived
}

// RulesFor returns the rule set for a document kind.
func RulesFor(kind DocumentKind) Rules {
	switch kind {
	case KindTransaction:
		return Rules{MinLines: 2, MutualExclusion: true}
	case KindPurchaseOrder:
		return Rules{MinLines: 1, QuantityPrice: true, PriceOverride: true}
	default: // invoice, quote
		return Rules{MinLines: 1, QuantityPrice: true}
	}
}

// ValidationState tracks one submission attempt:
// Idle → Validating → Rejected | Accepted. Rejected returns to Idle
// immediately; Accepted permits payload construction.
type ValidationState int

const (
	StateIdle ValidationState = iota
	StateValidating
	StateAccepted
)

// ValidationError is a user-facing rule violation. Line is 1-based; zero
// means the violation is a header or document-level rule.
type ValidationError struct {
	Line    int
	Message string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// TransactionPayload is the submission shape for a ledger transaction.
// Debit and credit are always present and numeric (zero, never empty)
// even though the form stores unset amounts as empty strings.
type TransactionPayload struct {
	Date        string                   `json:"date"`
	Description string                   `json:"description"`
	Lines       []TransactionPayloadLine `json:"lines"`
}

type TransactionPayloadLine struct {
	Account string          `json:"account"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
}

// ItemizedPayload is the submission shape for invoices, quotes, and purchase
// orders. Total is computed by the same code path as the displayed total.
type ItemizedPayload struct {
	Kind         DocumentKind    `json:"kind"`
	Contact      string          `json:"contact"`
	Number       string          `json:"number,omitempty"`
	DueDate      string          `json:"due_date,omitempty"`
	ExpectedDate string          `json:"expected_date,omitempty"`
	Status       string          `json:"status,omitempty"`
	Paid         bool            `json:"paid"`
	Items        []ItemPayload   `json:"items"`
	Total        decimal.Decimal `json:"total"`
}

type ItemPayload struct {
	Product   string          `json:"product"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Validate gates submission. Rules run in a fixed order and the first
// violation wins, so the user always sees one deterministic message:
//
//	1. required header fields
//	2. minimum line count
//	3. per-line structure, in line order
//	4. the global balance invariant (ledger kinds only)
//
// On success the form is Accepted and a payload may be built; on failure it
// returns to Idle with no retry state retained.
func (f *DocumentForm) Validate() error {
	f.state = StateValidating
	if err := f.runRules(); err != nil {
		f.state = StateIdle
		return err
	}
	f.state = StateAccepted
	return nil
}

func (f *DocumentForm) runRules() *ValidationError {
	if err := f.validateHeader(); err != nil {
		return err
	}

	if len(f.Lines) < f.rules.MinLines {
		if f.rules.MinLines == 2 {
			return &ValidationError{Message: "transaction must have at least two lines"}
		}
		return &ValidationError{Message: "document must have at least one item line"}
	}

	if f.rules.MutualExclusion {
		return f.validateLedgerLines()
	}
	return f.validateItemLines()
}

func (f *DocumentForm) validateHeader() *ValidationError {
	if f.rules.MutualExclusion {
		if strings.TrimSpace(f.Description) == "" {
			return &ValidationError{Message: "description is required"}
		}
		if f.Date != "" {
			if _, err := time.Parse("2006-01-02", f.Date); err != nil {
				return &ValidationError{Message: "invalid date format, expected YYYY-MM-DD"}
			}
		}
		return nil
	}

	if strings.TrimSpace(f.Contact) == "" {
		if f.Kind == KindPurchaseOrder {
			return &ValidationError{Message: "supplier is required"}
		}
		return &ValidationError{Message: "client is required"}
	}
	switch f.Kind {
	case KindInvoice:
		if strings.TrimSpace(f.Number) == "" {
			return &ValidationError{Message: "invoice number is required"}
		}
		if f.DueDate == "" {
			return &ValidationError{Message: "due date is required"}
		}
		if _, err := time.Parse("2006-01-02", f.DueDate); err != nil {
			return &ValidationError{Message: "invalid due date format, expected YYYY-MM-DD"}
		}
	case KindPurchaseOrder:
		if f.ExpectedDate == "" {
			return &ValidationError{Message: "expected date is required"}
		}
		if _, err := time.Parse("2006-01-02", f.ExpectedDate); err != nil {
			return &ValidationError{Message: "invalid expected date format, expected YYYY-MM-DD"}
		}
	}
	return nil
}

// validateLedgerLines checks each line in order, then the balance invariant.
// The error for an imbalance names both computed totals so the user can see
// the gap without re-adding columns by hand.
func (f *DocumentForm) validateLedgerLines() *ValidationError {
	lines := f.ledgerPayloadLines()

	for i, l := range lines {
		if l.Account == "" {
			return &ValidationError{Line: i + 1, Message: "account is required"}
		}
		debitSet := l.Debit.IsPositive()
		creditSet := l.Credit.IsPositive()
		if debitSet == creditSet {
			return &ValidationError{Line: i + 1, Message: "exactly one of debit or credit must be set"}
		}
	}

	debit, credit := LedgerTotals(lines)
	if !debit.Equal(credit) {
		return &ValidationError{
			Message: fmt.Sprintf("transaction does not balance: debits %s, credits %s", debit, credit),
		}
	}
	return nil
}

func (f *DocumentForm) validateItemLines() *ValidationError {
	for i, l := range f.Lines {
		if l.Reference == "" {
			return &ValidationError{Line: i + 1, Message: "product is required"}
		}
		if l.Quantity < 1 {
			return &ValidationError{Line: i + 1, Message: "quantity must be at least 1"}
		}
		if l.UnitPrice.IsNegative() {
			return &ValidationError{Line: i + 1, Message: "unit price cannot be negative"}
		}
	}
	return nil
}

// TransactionPayload builds the submission payload of an Accepted ledger
// form. Only the validator constructs payloads, and only after every rule has
// passed. An unset date defaults to today.
func (f *DocumentForm) TransactionPayload() (*TransactionPayload, error) {
	if f.Kind != KindTransaction {
		return nil, fmt.Errorf("form kind %s has no transaction payload", f.Kind)
	}
	if f.state != StateAccepted {
		return nil, fmt.Errorf("form has not passed validation")
	}

	date := f.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	return &TransactionPayload{
		Date:        date,
		Description: strings.TrimSpace(f.Description),
		Lines:       f.ledgerPayloadLines(),
	}, nil
}

// ItemizedPayload builds the submission payload of an Accepted itemized form.
func (f *DocumentForm) ItemizedPayload() (*ItemizedPayload, error) {
	if !f.Kind.IsItemized() {
		return nil, fmt.Errorf("form kind %s has no itemized payload", f.Kind)
	}
	if f.state != StateAccepted {
		return nil, fmt.Errorf("form has not passed validation")
	}

	items := f.itemPayloadLines()
	status := f.Status
	if status == "" && (f.Kind == KindQuote || f.Kind == KindPurchaseOrder) {
		status = QuoteStatusPending
	}
	return &ItemizedPayload{
		Kind:         f.Kind,
		Contact:      strings.TrimSpace(f.Contact),
		Number:       strings.TrimSpace(f.Number),
		DueDate:      f.DueDate,
		ExpectedDate: f.ExpectedDate,
		Status:       status,
		Paid:         f.Paid,
		Items:        items,
		Total:        ItemizedTotal(items),
	}, nil
}
