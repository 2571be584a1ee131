package core

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// CatalogLookup resolves a product reference to its canonical unit price.
// The line model consults it whenever a line's product changes so a price is
// never left stale after a reference edit.
type CatalogLookup interface {
	ProductPrice(ctx context.Context, productCode string) (decimal.Decimal, error)
}

// Line is one editable row of a document form. Ledger lines keep debit and
// credit as raw display strings until submission commits them; committing on
// every keystroke would corrupt partially typed input. Itemized lines hold
// committed values directly because quantity and price are plain inputs.
type Line struct {
	Reference string // account code (ledger) or product code (itemized)

	// Ledger fields. Digits only; exactly one is non-empty at any time.
	Debit  string
	Credit string

	// Itemized fields.
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Line field names accepted by DocumentForm.UpdateField.
const (
	FieldAccount   = "account"
	FieldDebit     = "debit"
	FieldCredit    = "credit"
	FieldProduct   = "product"
	FieldQuantity  = "quantity"
	FieldUnitPrice = "unitPrice"
)

// DocumentForm is the transient state of one document being edited: header
// fields plus an ordered, index-addressable line collection. Each form
// instance is exclusively owned by one editing flow; the stored record is the
// durable source of truth and the form is rebuilt from it when entering edit
// mode.
type DocumentForm struct {
	Kind  DocumentKind
	rules Rules

	// Ledger header.
	Date        string
	Description string

	// Itemized header.
	Contact      string // client or supplier code
	Number       string
	DueDate      string
	ExpectedDate string
	Status       string
	Paid         bool

	Lines []Line

	catalog CatalogLookup
	state   ValidationState
	flow    FormFlow
}

// NewDocumentForm returns a form for the given kind with one default line,
// matching the initial state a user sees when opening the document screen.
func NewDocumentForm(kind DocumentKind, catalog CatalogLookup) *DocumentForm {
	f := &DocumentForm{
		Kind:    kind,
		rules:   RulesFor(kind),
		catalog: catalog,
		state:   StateIdle,
	}
	f.AddLine()
	return f
}

// Rules returns the rule configuration the form validates under.
func (f *DocumentForm) Rules() Rules { return f.rules }

// State returns the outcome of the most recent validation attempt.
func (f *DocumentForm) State() ValidationState { return f.state }

// AddLine appends a kind-appropriate default line.
func (f *DocumentForm) AddLine() {
	if f.rules.QuantityPrice {
		f.Lines = append(f.Lines, Line{Quantity: 1, UnitPrice: decimal.Zero})
	} else {
		f.Lines = append(f.Lines, Line{})
	}
	f.state = StateIdle
}

// RemoveLine removes the line at index i. Itemized documents must keep at
// least one line, so removal below that is rejected at edit time. Ledger
// transactions allow removal down to zero lines; their two-line minimum is a
// submission rule, not an editing rule.
func (f *DocumentForm) RemoveLine(i int) error {
	if i < 0 || i >= len(f.Lines) {
		return fmt.Errorf("line %d does not exist", i+1)
	}
	if f.rules.QuantityPrice && len(f.Lines) <= 1 {
		return fmt.Errorf("document must keep at least one item line")
	}
	f.Lines = append(f.Lines[:i], f.Lines[i+1:]...)
	f.state = StateIdle
	return nil
}

// UpdateField applies a single field edit to the line at index i, with
// cross-field effects:
//   - writing debit clears credit on the same line, and vice versa
//   - writing the product reference re-derives the unit price from the
//     catalog, unless the kind allows manual price entry
//
// Amount fields accept display-formatted input; normalization strips
// everything that does not belong.
func (f *DocumentForm) UpdateField(ctx context.Context, i int, field, value string) error {
	if i < 0 || i >= len(f.Lines) {
		return fmt.Errorf("line %d does not exist", i+1)
	}
	line := &f.Lines[i]
	f.state = StateIdle

	switch field {
	case FieldAccount:
		line.Reference = value
	case FieldDebit:
		line.Debit = digitsOnly(value)
		line.Credit = ""
	case FieldCredit:
		line.Credit = digitsOnly(value)
		line.Debit = ""
	case FieldProduct:
		line.Reference = value
		if !f.rules.PriceOverride {
			price, err := f.catalog.ProductPrice(ctx, value)
			if err != nil {
				line.UnitPrice = decimal.Zero
				return fmt.Errorf("price lookup for product %s: %w", value, err)
			}
			line.UnitPrice = price
		}
	case FieldQuantity:
		line.Quantity = ParseAmount(value).IntPart()
	case FieldUnitPrice:
		line.UnitPrice = ParseDecimal(value)
	default:
		return fmt.Errorf("unknown line field %q", field)
	}
	return nil
}

// LoadLines replaces the line collection, used when entering edit mode on an
// existing record.
func (f *DocumentForm) LoadLines(lines []Line) {
	f.Lines = append([]Line(nil), lines...)
	f.state = StateIdle
}

// Reset discards all transient state, returning the form to its initial
// single-line shape.
func (f *DocumentForm) Reset() {
	f.Date = ""
	f.Description = ""
	f.Contact = ""
	f.Number = ""
	f.DueDate = ""
	f.ExpectedDate = ""
	f.Status = ""
	f.Paid = false
	f.Lines = nil
	f.AddLine()
	f.state = StateIdle
	f.flow.Reset()
}

func digitsOnly(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out = append(out, r)
		}
	}
	return string(out)
}
