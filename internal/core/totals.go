package core

import "github.com/shopspring/decimal"

// Totals are recomputed from the full line slice on every call rather than
// maintained incrementally. Documents are bounded to a handful of lines, so
// the O(n) walk costs nothing and an entire class of incremental-update bugs
// never exists. The same functions produce both the displayed totals and the
// submitted payload totals, so the two cannot drift.

// LedgerTotals sums debit and credit across normalized ledger payload lines.
func LedgerTotals(lines []TransactionPayloadLine) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// ItemizedTotal sums quantity × unit price across item payload lines. No
// intermediate rounding: the result is exact and only the display layer
// rounds.
func ItemizedTotal(items []ItemPayload) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(decimal.NewFromInt(it.Quantity).Mul(it.UnitPrice))
	}
	return total
}

// TotalDebit returns the live debit total over the form's current lines.
func (f *DocumentForm) TotalDebit() decimal.Decimal {
	debit, _ := LedgerTotals(f.ledgerPayloadLines())
	return debit
}

// TotalCredit returns the live credit total over the form's current lines.
func (f *DocumentForm) TotalCredit() decimal.Decimal {
	_, credit := LedgerTotals(f.ledgerPayloadLines())
	return credit
}

// Total returns the live quantity × price total for an itemized form.
func (f *DocumentForm) Total() decimal.Decimal {
	return ItemizedTotal(f.itemPayloadLines())
}

// ledgerPayloadLines commits the raw debit/credit strings to numeric values.
// Used by both totals and payload construction so there is one
// normalization path.
func (f *DocumentForm) ledgerPayloadLines() []TransactionPayloadLine {
	lines := make([]TransactionPayloadLine, len(f.Lines))
	for i, l := range f.Lines {
		lines[i] = TransactionPayloadLine{
			Account: l.Reference,
			Debit:   ParseAmount(l.Debit),
			Credit:  ParseAmount(l.Credit),
		}
	}
	return lines
}

func (f *DocumentForm) itemPayloadLines() []ItemPayload {
	items := make([]ItemPayload, len(f.Lines))
	for i, l := range f.Lines {
		items[i] = ItemPayload{
			Product:   l.Reference,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		}
	}
	return items
}
