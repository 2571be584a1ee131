package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// AccountBalance is one account's entry in a report section. Balance carries
// the sign convention of its section:
//   - assets and expenses: positive = net debit (normal balance)
//   - liabilities, equity, and revenue: positive = net credit
type AccountBalance struct {
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// BalanceSheet is the financial position as of a date. IsBalanced holds for
// any correctly posted ledger where income and expense have been closed to
// equity; with open periods the gap equals current-period net income.
type BalanceSheet struct {
	AsOfDate         string           `json:"as_of_date"`
	Assets           []AccountBalance `json:"assets"`
	Liabilities      []AccountBalance `json:"liabilities"`
	Equity           []AccountBalance `json:"equity"`
	TotalAssets      decimal.Decimal  `json:"total_assets"`
	TotalLiabilities decimal.Decimal  `json:"total_liabilities"`
	TotalEquity      decimal.Decimal  `json:"total_equity"`
	IsBalanced       bool             `json:"is_balanced"`
}

// IncomeStatement is the revenue and expense summary over a date range.
type IncomeStatement struct {
	FromDate      string           `json:"from_date,omitempty"`
	ToDate        string           `json:"to_date,omitempty"`
	Revenue       []AccountBalance `json:"revenue"`
	Expenses      []AccountBalance `json:"expenses"`
	TotalRevenue  decimal.Decimal  `json:"total_revenue"`
	TotalExpenses decimal.Decimal  `json:"total_expenses"`
	NetIncome     decimal.Decimal  `json:"net_income"`
}

// ReportingService provides read-only reports computed from posted
// transactions. Reports always query the live ledger, so they reflect the
// latest posting with no refresh step.
type ReportingService interface {
	// BalanceSheet aggregates asset, liability, and equity balances from
	// lines posted on or before asOfDate. Empty asOfDate means today.
	BalanceSheet(ctx context.Context, asOfDate string) (*BalanceSheet, error)

	// IncomeStatement aggregates revenue and expense balances over the
	// given date range. Either bound may be empty for no bound.
	IncomeStatement(ctx context.Context, fromDate, toDate string) (*IncomeStatement, error)
}

type reportingService struct {
	pool *pgxpool.Pool
}

func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

func (s *reportingService) BalanceSheet(ctx context.Context, asOfDate string) (*BalanceSheet, error) {
	if asOfDate == "" {
		asOfDate = time.Now().Format("2006-01-02")
	}

	const q = `
		SELECT a.code, a.name, a.type,
		       COALESCE(s.total_debit, 0) - COALESCE(s.total_credit, 0) AS net_balance
		FROM accounts a
		LEFT JOIN (
		    SELECT tl.account_id,
		           SUM(tl.debit)  AS total_debit,
		           SUM(tl.credit) AS total_credit
		    FROM transaction_lines tl
		    JOIN transactions t ON t.id = tl.transaction_id
		    WHERE t.date <= $1::date
		    GROUP BY tl.account_id
		) s ON s.account_id = a.id
		WHERE a.type IN ('asset', 'liability', 'equity')
		ORDER BY a.type, a.code`

	rows, err := s.pool.Query(ctx, q, asOfDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query balance sheet: %w", err)
	}
	defer rows.Close()

	report := &BalanceSheet{AsOfDate: asOfDate}
	for rows.Next() {
		var code, name string
		var accType AccountType
		var net decimal.Decimal // debit - credit
		if err := rows.Scan(&code, &name, &accType, &net); err != nil {
			return nil, fmt.Errorf("failed to scan balance sheet row: %w", err)
		}

		switch accType {
		case Asset:
			report.Assets = append(report.Assets, AccountBalance{Code: code, Name: name, Balance: net})
			report.TotalAssets = report.TotalAssets.Add(net)
		case Liability:
			bal := net.Neg()
			report.Liabilities = append(report.Liabilities, AccountBalance{Code: code, Name: name, Balance: bal})
			report.TotalLiabilities = report.TotalLiabilities.Add(bal)
		case Equity:
			bal := net.Neg()
			report.Equity = append(report.Equity, AccountBalance{Code: code, Name: name, Balance: bal})
			report.TotalEquity = report.TotalEquity.Add(bal)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("balance sheet row iteration error: %w", err)
	}

	report.IsBalanced = report.TotalAssets.Equal(report.TotalLiabilities.Add(report.TotalEquity))
	return report, nil
}

func (s *reportingService) IncomeStatement(ctx context.Context, fromDate, toDate string) (*IncomeStatement, error) {
	q := `
		SELECT a.code, a.name, a.type,
		       COALESCE(SUM(tl.debit), 0)  AS total_debit,
		       COALESCE(SUM(tl.credit), 0) AS total_credit
		FROM accounts a
		LEFT JOIN transaction_lines tl ON tl.account_id = a.id
		LEFT JOIN transactions t ON t.id = tl.transaction_id`

	// Date bounds belong on the join so inactive accounts still appear
	// with zero balances.
	var args []any
	if fromDate != "" {
		args = append(args, fromDate)
		q += fmt.Sprintf(" AND t.date >= $%d::date", len(args))
	}
	if toDate != "" {
		args = append(args, toDate)
		q += fmt.Sprintf(" AND t.date <= $%d::date", len(args))
	}
	q += `
		WHERE a.type IN ('revenue', 'expense')
		GROUP BY a.code, a.name, a.type
		ORDER BY a.type DESC, a.code`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query income statement: %w", err)
	}
	defer rows.Close()

	report := &IncomeStatement{FromDate: fromDate, ToDate: toDate}
	for rows.Next() {
		var code, name string
		var accType AccountType
		var debit, credit decimal.Decimal
		if err := rows.Scan(&code, &name, &accType, &debit, &credit); err != nil {
			return nil, fmt.Errorf("failed to scan income statement row: %w", err)
		}

		switch accType {
		case Revenue:
			bal := credit.Sub(debit)
			report.Revenue = append(report.Revenue, AccountBalance{Code: code, Name: name, Balance: bal})
			report.TotalRevenue = report.TotalRevenue.Add(bal)
		case Expense:
			bal := debit.Sub(credit)
			report.Expenses = append(report.Expenses, AccountBalance{Code: code, Name: name, Balance: bal})
			report.TotalExpenses = report.TotalExpenses.Add(bal)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("income statement row iteration error: %w", err)
	}

	report.NetIncome = report.TotalRevenue.Sub(report.TotalExpenses)
	return report, nil
}
