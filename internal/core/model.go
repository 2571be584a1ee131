package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	Asset     AccountType = "asset"
	Liability AccountType = "liability"
	Equity    AccountType = "equity"
	Revenue   AccountType = "revenue"
	Expense   AccountType = "expense"
)

type Account struct {
	ID        int         `json:"id"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	CreatedAt time.Time   `json:"created_at"`
}

// Product is a sellable or purchasable catalog item. UnitPrice is the
// canonical price source for invoice and quote lines.
type Product struct {
	ID        int             `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

type Client struct {
	ID        int       `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

type Supplier struct {
	ID            int       `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person"`
	Phone         string    `json:"phone"`
	CreatedAt     time.Time `json:"created_at"`
}

// DocumentKind selects the rule set and storage mapping for a form.
// Transactions are ledger documents; the other three are itemized.
type DocumentKind string

const (
	KindTransaction   DocumentKind = "transaction"
	KindInvoice       DocumentKind = "invoice"
	KindQuote         DocumentKind = "quote"
	KindPurchaseOrder DocumentKind = "purchase_order"
)

// IsItemized reports whether the kind carries product/quantity/price lines
// rather than debit/credit ledger lines.
func (k DocumentKind) IsItemized() bool {
	return k == KindInvoice || k == KindQuote || k == KindPurchaseOrder
}

// Transaction is a posted double-entry ledger transaction.
type Transaction struct {
	ID          int               `json:"id"`
	Date        string            `json:"date"` // YYYY-MM-DD
	Description string            `json:"description"`
	Lines       []TransactionLine `json:"lines"`
	CreatedAt   time.Time         `json:"created_at"`
}

type TransactionLine struct {
	ID            int             `json:"id"`
	TransactionID int             `json:"transaction_id"`
	AccountID     int             `json:"account_id"`
	AccountCode   string          `json:"account_code"` // joined from accounts
	AccountName   string          `json:"account_name"` // joined from accounts
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
}

// Quote and purchase order status values. Invoices carry a paid flag instead.
const (
	QuoteStatusPending  = "pending"
	QuoteStatusAccepted = "accepted"
	QuoteStatusRejected = "rejected"

	POStatusPending   = "pending"
	POStatusReceived  = "received"
	POStatusCancelled = "cancelled"
)

// ItemizedDocument is a stored invoice, quote, or purchase order.
// Header fields not used by the kind stay at their zero value.
type ItemizedDocument struct {
	ID           int             `json:"id"`
	Kind         DocumentKind    `json:"kind"`
	ContactID    int             `json:"contact_id"`
	ContactCode  string          `json:"contact_code"` // joined from clients or suppliers
	ContactName  string          `json:"contact_name"`
	Number       string          `json:"number,omitempty"`        // invoices
	DueDate      string          `json:"due_date,omitempty"`      // invoices, YYYY-MM-DD
	ExpectedDate string          `json:"expected_date,omitempty"` // purchase orders, YYYY-MM-DD
	Status       string          `json:"status,omitempty"`        // quotes, purchase orders
	Paid         bool            `json:"paid"`                    // invoices
	Total        decimal.Decimal `json:"total"`
	Items        []DocumentItem  `json:"items"`
	CreatedAt    time.Time       `json:"created_at"`
}

type DocumentItem struct {
	ID          int             `json:"id"`
	DocumentID  int             `json:"document_id"`
	LineNumber  int             `json:"line_number"`
	ProductID   int             `json:"product_id"`
	ProductCode string          `json:"product_code"` // joined from products
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Payment method codes.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
)

// Payment is a collection recorded against an invoice. An invoice is marked
// paid while the sum of its payments covers its total.
type Payment struct {
	ID            int             `json:"id"`
	InvoiceID     int             `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"` // joined from documents
	ClientName    string          `json:"client_name"`    // joined from clients
	Number        string          `json:"number"`
	Method        string          `json:"method"`
	Date          string          `json:"date"` // YYYY-MM-DD
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Category struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Warehouse struct {
	ID        int       `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

// StockLevel is the on-hand quantity of one product in one warehouse.
type StockLevel struct {
	ProductCode   string `json:"product_code"`
	ProductName   string `json:"product_name"`
	WarehouseCode string `json:"warehouse_code"`
	WarehouseName string `json:"warehouse_name"`
	Quantity      int64  `json:"quantity"`
}

// Receiving is a goods receipt registered against a purchase order. Its items
// increase warehouse stock; deleting it reverses them.
type Receiving struct {
	ID              int             `json:"id"`
	PurchaseOrderID int             `json:"purchase_order_id"`
	WarehouseID     int             `json:"warehouse_id"`
	WarehouseCode   string          `json:"warehouse_code"` // joined from warehouses
	WarehouseName   string          `json:"warehouse_name"`
	Items           []ReceivingItem `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
}

type ReceivingItem struct {
	ID          int    `json:"id"`
	ReceivingID int    `json:"receiving_id"`
	ProductID   int    `json:"product_id"`
	ProductCode string `json:"product_code"` // joined from products
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
}
