package bill

import (
	"time"

	"bill-tracker/internal/extraction"
)

// Bill is a confirmed, persisted utility bill. It is created from an
// extraction candidate after the user has reviewed and possibly corrected
// the fields. Dates are ISO calendar dates (YYYY-MM-DD) or empty.
type Bill struct {
	ID            string                 `json:"id"`
	UserID        string                 `json:"user_id"`
	Provider      string                 `json:"provider,omitempty"`
	Type          extraction.UtilityType `json:"type"`
	AmountCents   int                    `json:"amount_cents"`
	BillDate      string                 `json:"bill_date,omitempty"`
	DueDate       string                 `json:"due_date,omitempty"`
	PeriodStart   string                 `json:"period_start,omitempty"`
	PeriodEnd     string                 `json:"period_end,omitempty"`
	InvoiceNumber string                 `json:"invoice_number,omitempty"`
	Reference     string                 `json:"reference,omitempty"`
	Account       string                 `json:"account,omitempty"`
	ImagePath     string                 `json:"image_path,omitempty"`
	ContentType   string                 `json:"content_type,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// Input carries the user-confirmed fields of a bill to be saved. The
// extraction pipeline only produces candidates; nothing is persisted until
// the user commits one of these.
type Input struct {
	Provider      string `json:"provider"`
	Type          string `json:"type"`
	AmountCents   int    `json:"amount_cents"`
	BillDate      string `json:"bill_date"`
	DueDate       string `json:"due_date"`
	PeriodStart   string `json:"period_start"`
	PeriodEnd     string `json:"period_end"`
	InvoiceNumber string `json:"invoice_number"`
	Reference     string `json:"reference"`
	Account       string `json:"account"`
}
