package extraction

import "context"

// UtilityType classifies the service a bill covers.
type UtilityType string

const (
	Electricity UtilityType = "electricity"
	Water       UtilityType = "water"
	Gas         UtilityType = "gas"
	Internet    UtilityType = "internet"
	Phone       UtilityType = "phone"
	TV          UtilityType = "tv"
	Other       UtilityType = "other"
)

// ParseUtilityType maps a string to a known utility type, falling back to Other.
func ParseUtilityType(s string) UtilityType {
	switch UtilityType(s) {
	case Electricity, Water, Gas, Internet, Phone, TV:
		return UtilityType(s)
	default:
		return Other
	}
}

// Candidate is the output of the extraction pipeline: an unconfirmed bill
// record for the user to review and correct before saving. Dates are ISO
// calendar dates (YYYY-MM-DD) or empty when unparseable. Amount is in cents
// and never negative; a failed parse leaves it at zero.
type Candidate struct {
	Provider       string      `json:"provider,omitempty"`
	Type           UtilityType `json:"type"`
	AmountCents    int         `json:"amount_cents"`
	BillDate       string      `json:"bill_date,omitempty"`
	DueDate        string      `json:"due_date,omitempty"`
	PeriodStart    string      `json:"period_start,omitempty"`
	PeriodEnd      string      `json:"period_end,omitempty"`
	InvoiceNumber  string      `json:"invoice_number,omitempty"`
	BarcodePayload string      `json:"barcode_payload,omitempty"`
	BarcodeFormat  string      `json:"barcode_format,omitempty"`
	Reference      string      `json:"reference,omitempty"`
	Account        string      `json:"account,omitempty"`
	RawText        string      `json:"raw_text"`
	SourceImage    string      `json:"source_image"`
}

// Barcode is a decoded barcode symbol found in an image.
type Barcode struct {
	Code   string `json:"code"`
	Format string `json:"format"`
}

// TextExtractor recognizes text in an image. Input is PNG image bytes.
// Recognition failure is non-fatal to callers: the pipeline maps it to an
// empty string so the user can still fill in fields manually.
type TextExtractor interface {
	ExtractText(ctx context.Context, imageData []byte) (string, error)
}

// BarcodeDetector attempts a one-shot decode against a static image.
// A (nil, nil) return means no barcode was found, which is the common case
// and not an error.
type BarcodeDetector interface {
	Detect(ctx context.Context, imageData []byte) (*Barcode, error)
}
