package app

// TransactionRequest is the submission of a ledger transaction form. Amounts
// arrive as the raw display strings the form holds, empty while unset and
// possibly grouped ("12,345"), and are normalized before validation.
type TransactionRequest struct {
	Date           string                 `json:"date"`
	Description    string                 `json:"description"`
	IdempotencyKey string                 `json:"idempotency_key,omitempty"`
	Lines          []TransactionLineInput `json:"lines"`
}

type TransactionLineInput struct {
	Account string `json:"account"`
	Debit   string `json:"debit"`
	Credit  string `json:"credit"`
}

// DocumentRequest is the submission of an invoice, quote, or purchase order
// form. The kind comes from the route, not the body.
type DocumentRequest struct {
	Contact      string      `json:"contact"`
	Number       string      `json:"number,omitempty"`
	DueDate      string      `json:"due_date,omitempty"`
	ExpectedDate string      `json:"expected_date,omitempty"`
	Status       string      `json:"status,omitempty"`
	Paid         bool        `json:"paid"`
	Items        []ItemInput `json:"items"`
}

type ItemInput struct {
	Product   string `json:"product"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unit_price,omitempty"` // honored for purchase orders only
}

// Master data create requests, validated with struct tags at the web boundary.

type CreateAccountRequest struct {
	Code string `json:"code" validate:"required"`
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required,oneof=asset liability equity revenue expense"`
}

type CreateProductRequest struct {
	Code      string `json:"code" validate:"required"`
	Name      string `json:"name" validate:"required"`
	UnitPrice string `json:"unit_price" validate:"required"`
}

type CreateClientRequest struct {
	Code  string `json:"code" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
}

type CreateSupplierRequest struct {
	Code          string `json:"code" validate:"required"`
	Name          string `json:"name" validate:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
}

// PaymentRequest records or replaces a payment against an invoice. Amount is
// the raw display string and is normalized like every other money field.
type PaymentRequest struct {
	InvoiceID int    `json:"invoice_id" validate:"required,gt=0"`
	Number    string `json:"number" validate:"required"`
	Method    string `json:"method" validate:"required,oneof=cash card transfer"`
	Date      string `json:"date,omitempty"`
	Amount    string `json:"amount" validate:"required"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type CreateWarehouseRequest struct {
	Code     string `json:"code" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Location string `json:"location"`
}

// ReceivingRequest registers a goods receipt against a purchase order.
type ReceivingRequest struct {
	PurchaseOrderID int                    `json:"purchase_order_id" validate:"required,gt=0"`
	Warehouse       string                 `json:"warehouse" validate:"required"`
	Items           []ReceivingItemRequest `json:"items" validate:"required,min=1,dive"`
}

type ReceivingItemRequest struct {
	Product  string `json:"product" validate:"required"`
	Quantity string `json:"quantity" validate:"required"`
}
