package core_test

import (
	"errors"
	"strings"
	"testing"

	"erp-backoffice/internal/core"

	"github.com/shopspring/decimal"
)

// ledgerForm builds a transaction form with the given raw lines.
func ledgerForm(description string, lines []core.Line) *core.DocumentForm {
	f := core.NewDocumentForm(core.KindTransaction, nil)
	f.Description = description
	f.LoadLines(lines)
	return f
}

func TestValidate_Transaction(t *testing.T) {
	tests := []struct {
		name        string
		description string
		lines       []core.Line
		wantErr     string // empty means validation must pass
		wantLine    int
	}{
		{
			name:        "balanced entry passes",
			description: "office rent",
			lines: []core.Line{
				{Reference: "A", Debit: "100"},
				{Reference: "B", Credit: "100"},
			},
		},
		{
			name:        "split credit passes",
			description: "sale with tax",
			lines: []core.Line{
				{Reference: "A", Debit: "116"},
				{Reference: "B", Credit: "100"},
				{Reference: "C", Credit: "16"},
			},
		},
		{
			name:        "missing description",
			description: "   ",
			lines: []core.Line{
				{Reference: "A", Debit: "100"},
				{Reference: "B", Credit: "100"},
			},
			wantErr: "description is required",
		},
		{
			name:        "single line fails minimum regardless of correctness",
			description: "lonely line",
			lines: []core.Line{
				{Reference: "A", Debit: "100"},
			},
			wantErr: "at least two lines",
		},
		{
			name:        "missing account names the line",
			description: "x",
			lines: []core.Line{
				{Reference: "A", Debit: "100"},
				{Reference: "", Credit: "100"},
			},
			wantErr:  "account is required",
			wantLine: 2,
		},
		{
			name:        "both sides empty names the line",
			description: "x",
			lines: []core.Line{
				{Reference: "A"},
				{Reference: "B", Credit: "100"},
			},
			wantErr:  "exactly one of debit or credit",
			wantLine: 1,
		},
		{
			name:        "imbalance reports both totals",
			description: "x",
			lines: []core.Line{
				{Reference: "A", Debit: "100"},
				{Reference: "B", Credit: "50"},
			},
			wantErr: "debits 100, credits 50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ledgerForm(tt.description, tt.lines)
			err := f.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if f.State() != core.StateAccepted {
					t.Errorf("state = %v, want Accepted", f.State())
				}
				return
			}

			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
			var verr *core.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if tt.wantLine != 0 && verr.Line != tt.wantLine {
				t.Errorf("violation line = %d, want %d", verr.Line, tt.wantLine)
			}
			// Rejected returns to Idle immediately.
			if f.State() != core.StateIdle {
				t.Errorf("state after rejection = %v, want Idle", f.State())
			}
		})
	}
}

func TestValidate_RuleOrder(t *testing.T) {
	// A form violating every rule at once must report the header rule first.
	f := ledgerForm("", []core.Line{{Reference: "", Debit: "10", Credit: ""}})
	err := f.Validate()
	if err == nil || !strings.Contains(err.Error(), "description is required") {
		t.Fatalf("expected the header violation first, got %v", err)
	}
}

func TestValidate_Itemized(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *core.DocumentForm)
		wantErr string
	}{
		{
			name: "valid invoice passes",
			mutate: func(f *core.DocumentForm) {
				f.Lines[0] = core.Line{Reference: "P1", Quantity: 2, UnitPrice: dec("10")}
			},
		},
		{
			name: "missing client",
			mutate: func(f *core.DocumentForm) {
				f.Contact = ""
				f.Lines[0] = core.Line{Reference: "P1", Quantity: 1}
			},
			wantErr: "client is required",
		},
		{
			name: "missing invoice number",
			mutate: func(f *core.DocumentForm) {
				f.Number = ""
				f.Lines[0] = core.Line{Reference: "P1", Quantity: 1}
			},
			wantErr: "invoice number is required",
		},
		{
			name: "missing product",
			mutate: func(f *core.DocumentForm) {
				f.Lines[0] = core.Line{Quantity: 1}
			},
			wantErr: "product is required",
		},
		{
			name: "zero quantity",
			mutate: func(f *core.DocumentForm) {
				f.Lines[0] = core.Line{Reference: "P1", Quantity: 0}
			},
			wantErr: "quantity must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := core.NewDocumentForm(core.KindInvoice, newTestCatalog())
			f.Contact = "C1"
			f.Number = "F-001"
			f.DueDate = "2026-10-01"
			tt.mutate(f)

			err := f.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %v does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestTransactionPayload(t *testing.T) {
	f := ledgerForm("supplies", []core.Line{
		{Reference: "A", Debit: "1,500"},
		{Reference: "B", Credit: "1,500"},
	})

	// Payload construction requires a prior Accepted validation.
	if _, err := f.TransactionPayload(); err == nil {
		t.Fatal("expected error building payload before validation")
	}

	if err := f.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	p, err := f.TransactionPayload()
	if err != nil {
		t.Fatalf("payload: %v", err)
	}

	if p.Date == "" {
		t.Error("unset date must default, got empty")
	}
	// Unset sides are numeric zero in the payload, never empty.
	if !p.Lines[0].Credit.Equal(decimal.Zero) {
		t.Errorf("line 1 credit = %s, want 0", p.Lines[0].Credit)
	}
	if !p.Lines[0].Debit.Equal(dec("1500")) {
		t.Errorf("line 1 debit = %s, want 1500", p.Lines[0].Debit)
	}
}

func TestItemizedPayload_TotalMatchesDisplay(t *testing.T) {
	f := core.NewDocumentForm(core.KindQuote, newTestCatalog())
	f.Contact = "C1"
	f.LoadLines([]core.Line{
		{Reference: "P1", Quantity: 3, UnitPrice: dec("10")},
		{Reference: "P2", Quantity: 2, UnitPrice: dec("5")},
	})

	displayed := f.Total()

	if err := f.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	p, err := f.ItemizedPayload()
	if err != nil {
		t.Fatalf("payload: %v", err)
	}

	if !p.Total.Equal(displayed) {
		t.Errorf("payload total %s != displayed total %s", p.Total, displayed)
	}
	if !p.Total.Equal(dec("40")) {
		t.Errorf("total = %s, want 40", p.Total)
	}
	if p.Status != core.QuoteStatusPending {
		t.Errorf("status = %q, want default pending", p.Status)
	}
}
