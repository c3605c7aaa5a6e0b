package extraction

// Source tags where a field value came from. Barcodes follow a fixed
// national standard and are considered more reliable than free-text OCR,
// so barcode-sourced values take precedence in a merge.
type Source int

const (
	SourceAbsent Source = iota
	SourceOCR
	SourceBarcode
)

func (s Source) String() string {
	switch s {
	case SourceOCR:
		return "ocr"
	case SourceBarcode:
		return "barcode"
	default:
		return "absent"
	}
}

// Tagged is a field value carrying its source.
type Tagged[T any] struct {
	Value  T
	Source Source
}

func fromOCR[T any](v T) Tagged[T]     { return Tagged[T]{Value: v, Source: SourceOCR} }
func fromBarcode[T any](v T) Tagged[T] { return Tagged[T]{Value: v, Source: SourceBarcode} }

// mergeField resolves one field from its OCR- and barcode-derived values:
// barcode wins if present, else OCR, else absent (zero value).
func mergeField[T any](ocr, barcode Tagged[T]) Tagged[T] {
	if barcode.Source == SourceBarcode {
		return barcode
	}
	if ocr.Source == SourceOCR {
		return ocr
	}
	return Tagged[T]{Source: SourceAbsent}
}
