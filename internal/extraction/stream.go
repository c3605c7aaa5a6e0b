package extraction

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// FrameSource supplies successive frames from a live camera feed. NextFrame
// blocks until a frame is available, returns io.EOF when the feed ends, and
// must honor ctx cancellation. Close releases the camera; ScanStream calls
// it on every exit path, so a source must tolerate a second Close.
type FrameSource interface {
	NextFrame(ctx context.Context) ([]byte, error)
	Close() error
}

// ScanStream decodes frames until the first barcode hit, the source runs
// dry, or ctx is cancelled. It is a single-shot operation: it yields at most
// one result and the camera is released before it returns, whichever way it
// exits. Returns (nil, nil) when the feed ended without a detection.
func ScanStream(ctx context.Context, src FrameSource, detector BarcodeDetector) (barcode *Barcode, err error) {
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			slog.Warn("closing frame source", "error", cerr)
		}
	}()

	for {
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}

		frame, ferr := src.NextFrame(ctx)
		if errors.Is(ferr, io.EOF) {
			return nil, nil
		}
		if ferr != nil {
			if errors.Is(ferr, context.Canceled) || errors.Is(ferr, context.DeadlineExceeded) {
				return nil, ferr
			}
			return nil, fmt.Errorf("reading frame: %w", ferr)
		}

		found, derr := detector.Detect(ctx, frame)
		if derr != nil {
			// A failed decode on one frame is not fatal; the next frame
			// may be sharper.
			slog.Debug("frame decode failed", "error", derr)
			continue
		}
		if found != nil {
			slog.Info("barcode detected", "format", found.Format)
			return found, nil
		}
	}
}
