package extraction

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultStageTimeout bounds each recognition call. OCR in particular can be
// slow on large phone photos; a timed-out stage is treated the same as "no
// text" / "no barcode" so the upload flow is never blocked.
const DefaultStageTimeout = 30 * time.Second

// Pipeline coordinates the extraction stages and merges their partial
// results into one Candidate. It holds no mutable state between runs: two
// runs over the same image bytes yield the same candidate.
type Pipeline struct {
	text         TextExtractor
	barcode      BarcodeDetector
	stageTimeout time.Duration
}

// NewPipeline creates an extraction pipeline over the given adapters.
func NewPipeline(text TextExtractor, barcode BarcodeDetector) *Pipeline {
	return &Pipeline{text: text, barcode: barcode, stageTimeout: DefaultStageTimeout}
}

// WithStageTimeout overrides the per-stage recognition timeout.
func (p *Pipeline) WithStageTimeout(d time.Duration) *Pipeline {
	p.stageTimeout = d
	return p
}

// Extract runs the full pipeline over one uploaded image and always returns
// a candidate: every stage failure degrades to absent fields, the raw OCR
// text and the image reference are attached regardless, and the user can
// complete the form manually.
func (p *Pipeline) Extract(ctx context.Context, imageData []byte, contentType, imageRef string) *Candidate {
	candidate := &Candidate{Type: Other, SourceImage: imageRef}

	pngData, err := prepareImageData(imageData, contentType)
	if err != nil {
		slog.Warn("image conversion failed, extraction skipped", "image", imageRef, "error", err)
		return candidate
	}

	ocrInput := pngData
	if enhanced, err := enhanceForOCR(pngData); err == nil {
		ocrInput = enhanced
	} else {
		slog.Debug("image enhancement failed, using original", "error", err)
	}

	// Text and barcode recognition are independent reads over the same
	// immutable bytes, so they run concurrently and join before the merge.
	var (
		wg      sync.WaitGroup
		rawText string
		found   *Barcode
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		rawText = p.extractText(ctx, ocrInput, imageRef)
	}()
	go func() {
		defer wg.Done()
		found = p.detectBarcode(ctx, pngData, imageRef)
	}()
	wg.Wait()

	candidate.RawText = rawText

	if entry := ClassifyProvider(rawText); entry != nil {
		candidate.Provider = entry.Name
		candidate.Type = entry.Type
	}

	fields := ParseFields(rawText)

	ocrAmount := Tagged[int]{}
	if raw, ok := fields[FieldAmount]; ok {
		if cents, ok := ParseAmountCents(raw); ok {
			ocrAmount = fromOCR(cents)
		}
	}

	ocrReference := Tagged[string]{}
	if raw, ok := fields[FieldReference]; ok {
		ocrReference = fromOCR(raw)
	}

	barcodeAmount := Tagged[int]{}
	reference := Tagged[string]{}
	account := Tagged[string]{}
	if found != nil {
		candidate.BarcodePayload = found.Code
		candidate.BarcodeFormat = found.Format

		payload := ParsePayload(found.Code)
		if payload.Structured {
			if payload.HasAmount {
				barcodeAmount = fromBarcode(payload.AmountCents)
			}
			if payload.Reference != "" {
				reference = fromBarcode(payload.Reference)
			}
			if payload.Account != "" {
				account = fromBarcode(payload.Account)
			}
		}
	}

	// Barcode beats OCR for amount, reference and account. Dates come from
	// OCR alone; the HUB3 standard carries none of them.
	candidate.AmountCents = mergeField(ocrAmount, barcodeAmount).Value
	candidate.Reference = mergeField(ocrReference, reference).Value
	candidate.Account = mergeField(Tagged[string]{}, account).Value

	candidate.BillDate = fields[FieldBillDate]
	candidate.DueDate = fields[FieldDueDate]
	candidate.PeriodStart = fields[FieldPeriodStart]
	candidate.PeriodEnd = fields[FieldPeriodEnd]
	candidate.InvoiceNumber = fields[FieldInvoiceNumber]

	return candidate
}

func (p *Pipeline) extractText(ctx context.Context, pngData []byte, imageRef string) string {
	ctx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()

	text, err := p.text.ExtractText(ctx, pngData)
	if err != nil {
		slog.Warn("text extraction failed", "image", imageRef, "error", err)
		return ""
	}
	return text
}

func (p *Pipeline) detectBarcode(ctx context.Context, pngData []byte, imageRef string) *Barcode {
	ctx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()

	found, err := p.barcode.Detect(ctx, pngData)
	if err != nil {
		slog.Warn("barcode detection failed", "image", imageRef, "error", err)
		return nil
	}
	return found
}
