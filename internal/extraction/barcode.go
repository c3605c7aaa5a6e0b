package extraction

import (
	"bytes"
	"context"
	"image"
	"log/slog"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
)

// Bill barcodes are printed by many different providers and the symbology is
// not known in advance, so every common 1D family is tried.
var barcodeFormats = []gozxing.BarcodeFormat{
	gozxing.BarcodeFormat_CODE_128,
	gozxing.BarcodeFormat_EAN_13,
	gozxing.BarcodeFormat_EAN_8,
	gozxing.BarcodeFormat_CODE_39,
	gozxing.BarcodeFormat_CODABAR,
	gozxing.BarcodeFormat_UPC_A,
	gozxing.BarcodeFormat_UPC_E,
	gozxing.BarcodeFormat_ITF,
	gozxing.BarcodeFormat_CODE_93,
}

// ZXingDetector implements BarcodeDetector with a multi-format 1D reader.
type ZXingDetector struct{}

// NewZXingDetector creates a barcode detector for static bill images.
func NewZXingDetector() *ZXingDetector {
	return &ZXingDetector{}
}

// Detect runs a one-shot decode against the image. Decode failures of any
// kind are reported as "not found" (nil, nil): most bill photos carry no
// recognizable barcode and that must not disturb the upload flow.
func (d *ZXingDetector) Detect(ctx context.Context, imageData []byte) (*Barcode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		slog.Debug("barcode detection skipped, undecodable image", "error", err)
		return nil, nil
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, nil
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_POSSIBLE_FORMATS: barcodeFormats,
		gozxing.DecodeHintType_TRY_HARDER:       true,
	}

	// A fresh reader per call keeps Detect stateless across concurrent
	// pipeline runs.
	reader := oned.NewMultiFormatOneDReader(hints)
	result, err := reader.Decode(bmp, hints)
	if err != nil {
		return nil, nil
	}

	return &Barcode{
		Code:   result.GetText(),
		Format: result.GetBarcodeFormat().String(),
	}, nil
}
