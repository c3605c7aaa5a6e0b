package bill

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"bill-tracker/internal/extraction"
)

// Mode selects where listing and statistics queries read from. Demo mode
// serves a fixed sample dataset so the dashboard can be explored without
// uploading anything; it is set explicitly at startup, never guessed from
// ambient state.
type Mode string

const (
	ModeLive Mode = "live"
	ModeDemo Mode = "demo"
)

// Extractor produces a bill candidate from one uploaded image. It always
// returns a candidate; extraction failure degrades to absent fields.
type Extractor interface {
	Extract(ctx context.Context, imageData []byte, contentType, imageRef string) *extraction.Candidate
}

// IDGenerator generates unique bill IDs.
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time.
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string { return uuid.NewString() }

type defaultTimeSource struct{}

func (defaultTimeSource) Now() time.Time { return time.Now() }

// Service handles bill operations: extraction of candidates, persistence of
// confirmed bills, listing, statistics and export.
type Service struct {
	db          DB
	extractor   Extractor
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
	mode        Mode
}

// NewService creates a Service with UUID IDs and wall-clock time.
func NewService(db DB, extractor Extractor, storage Storage, mode Mode) *Service {
	return &Service{
		db:          db,
		extractor:   extractor,
		storage:     storage,
		idGenerator: uuidGenerator{},
		timeSource:  defaultTimeSource{},
		mode:        mode,
	}
}

// NewServiceWithDeps creates a Service with custom dependencies for testing.
func NewServiceWithDeps(db DB, extractor Extractor, storage Storage, mode Mode, idGen IDGenerator, timeSrc TimeSource) *Service {
	s := NewService(db, extractor, storage, mode)
	s.idGenerator = idGen
	s.timeSource = timeSrc
	return s
}

var (
	filenameJunk   = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	filenameSpaces = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up phone-generated filenames before they become
// storage handles.
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	base = filenameJunk.ReplaceAllString(base, "")
	base = filenameSpaces.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	const maxLen = 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}
	if base == "" {
		base = "bill"
	}
	return base + ext
}

// ProcessUpload runs the extraction pipeline over an uploaded image and
// returns the candidate for the user to review. Nothing is persisted here,
// and extraction failure is never fatal: at worst the candidate comes back
// with empty fields and the raw text for manual entry.
func (s *Service) ProcessUpload(ctx context.Context, filename string, data []byte, contentType string) *extraction.Candidate {
	imageRef := sanitizeFilename(filename)
	candidate := s.extractor.Extract(ctx, data, contentType, imageRef)

	slog.Info("processed upload",
		"filename", imageRef,
		"provider", candidate.Provider,
		"type", candidate.Type,
		"amount_cents", candidate.AmountCents,
		"barcode", candidate.BarcodeFormat != "",
	)
	return candidate
}

// SaveBill persists a user-confirmed bill and its image. The image is
// optional; a bill entered fully by hand has no stored image.
func (s *Service) SaveBill(input Input, userID string, imageData []byte, filename, contentType string) (*Bill, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if input.AmountCents < 0 {
		return nil, fmt.Errorf("amount must not be negative")
	}

	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	var imagePath string
	if len(imageData) > 0 {
		var err error
		imagePath, err = s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), imageData)
		if err != nil {
			return nil, fmt.Errorf("saving image: %w", err)
		}
	}

	bill := &Bill{
		ID:            id,
		UserID:        userID,
		Provider:      strings.TrimSpace(input.Provider),
		Type:          extraction.ParseUtilityType(input.Type),
		AmountCents:   input.AmountCents,
		BillDate:      input.BillDate,
		DueDate:       input.DueDate,
		PeriodStart:   input.PeriodStart,
		PeriodEnd:     input.PeriodEnd,
		InvoiceNumber: input.InvoiceNumber,
		Reference:     input.Reference,
		Account:       input.Account,
		ImagePath:     imagePath,
		ContentType:   contentType,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.db.SaveBill(bill); err != nil {
		if imagePath != "" {
			s.storage.Delete(imagePath)
		}
		return nil, fmt.Errorf("saving bill: %w", err)
	}

	return bill, nil
}

// GetUserBills returns all bills for a user, most recent bill date first.
func (s *Service) GetUserBills(userID string) ([]*Bill, error) {
	if s.mode == ModeDemo {
		return demoBills(userID, s.timeSource.Now()), nil
	}

	bills, err := s.db.ListBills(userID)
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}
	sortBills(bills)
	return bills, nil
}

// GetBill retrieves one bill, enforcing ownership.
func (s *Service) GetBill(id, userID string) (*Bill, error) {
	bill, err := s.db.GetBill(id)
	if err != nil {
		return nil, fmt.Errorf("getting bill: %w", err)
	}
	if bill.UserID != userID {
		return nil, fmt.Errorf("bill not found: %s", id)
	}
	return bill, nil
}

// DeleteBill removes a bill and its stored image. A failed image delete is
// logged but does not block removal of the record.
func (s *Service) DeleteBill(id, userID string) error {
	bill, err := s.GetBill(id, userID)
	if err != nil {
		return err
	}

	if bill.ImagePath != "" {
		if err := s.storage.Delete(bill.ImagePath); err != nil {
			slog.Warn("failed to delete bill image", "image", bill.ImagePath, "error", err)
		}
	}

	if err := s.db.DeleteBill(id); err != nil {
		return fmt.Errorf("deleting bill: %w", err)
	}
	return nil
}

// GetBillImage returns the stored image bytes and content type for a bill.
func (s *Service) GetBillImage(id, userID string) ([]byte, string, error) {
	bill, err := s.GetBill(id, userID)
	if err != nil {
		return nil, "", err
	}
	if bill.ImagePath == "" {
		return nil, "", fmt.Errorf("bill has no image: %s", id)
	}

	data, err := s.storage.Get(bill.ImagePath)
	if err != nil {
		return nil, "", fmt.Errorf("getting bill image: %w", err)
	}
	return data, bill.ContentType, nil
}

// Statistics aggregates a user's bills for the dashboard.
func (s *Service) Statistics(userID string) (*Statistics, error) {
	bills, err := s.GetUserBills(userID)
	if err != nil {
		return nil, err
	}
	return computeStatistics(bills), nil
}
