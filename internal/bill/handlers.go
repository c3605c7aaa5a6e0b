package bill

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
)

// maxUploadSize caps multipart uploads; high-resolution phone photos of
// bills routinely exceed 10MB.
const maxUploadSize = int64(50 << 20)

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}

// readUploadedFile pulls the image out of a multipart request. The file part
// is named "file"; a missing part is reported distinctly from a broken form.
func readUploadedFile(r *http.Request) (data []byte, filename, contentType string, err error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		if err.Error() == "http: request body too large" {
			return nil, "", "", fmt.Errorf("file is too large, maximum size is 50MB")
		}
		return nil, "", "", fmt.Errorf("error parsing form")
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", "", fmt.Errorf("no file provided")
	}
	defer f.Close()

	if header.Size > maxUploadSize {
		return nil, "", "", fmt.Errorf("file is too large, maximum size is 50MB")
	}

	data, err = io.ReadAll(f)
	if err != nil {
		return nil, "", "", fmt.Errorf("error reading file")
	}

	contentType = header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = guessContentType(header.Filename)
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	return data, header.Filename, contentType, nil
}

func guessContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

// handleExtract runs the extraction pipeline over an uploaded image and
// returns the candidate. Nothing is saved; the client reviews the fields
// and commits via POST /api/bills.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	data, filename, contentType, err := readUploadedFile(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	candidate := s.service.ProcessUpload(r.Context(), filename, data, contentType)
	writeJSON(w, http.StatusOK, candidate)
}

// handleCreateBill saves a confirmed bill. The request is multipart: the
// bill fields come as form values, the original image (optional) as "file".
func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSONError(w, http.StatusBadRequest, "error parsing form")
		return
	}

	amountCents, err := strconv.Atoi(r.FormValue("amount_cents"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "amount_cents must be an integer")
		return
	}

	input := Input{
		Provider:      r.FormValue("provider"),
		Type:          r.FormValue("type"),
		AmountCents:   amountCents,
		BillDate:      r.FormValue("bill_date"),
		DueDate:       r.FormValue("due_date"),
		PeriodStart:   r.FormValue("period_start"),
		PeriodEnd:     r.FormValue("period_end"),
		InvoiceNumber: r.FormValue("invoice_number"),
		Reference:     r.FormValue("reference"),
		Account:       r.FormValue("account"),
	}

	var (
		imageData   []byte
		filename    string
		contentType string
	)
	if f, header, ferr := r.FormFile("file"); ferr == nil {
		defer f.Close()
		imageData, err = io.ReadAll(f)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "error reading file")
			return
		}
		filename = header.Filename
		contentType = header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = guessContentType(filename)
		}
	}

	bill, err := s.service.SaveBill(input, s.userID(r), imageData, filename, contentType)
	if err != nil {
		slog.Error("Error saving bill", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, bill)
}

// handleListBills returns all bills for the requesting user.
func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := s.service.GetUserBills(s.userID(r))
	if err != nil {
		slog.Error("Error listing bills", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, bills)
}

// handleGetBill returns a single bill.
func (s *Server) handleGetBill(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Bill ID required", http.StatusBadRequest)
		return
	}
	bill, err := s.service.GetBill(id, s.userID(r))
	if err != nil {
		corsError(w, "Bill not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

// handleGetBillImage returns the stored image for a bill.
func (s *Server) handleGetBillImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Bill ID required", http.StatusBadRequest)
		return
	}
	data, contentType, err := s.service.GetBillImage(id, s.userID(r))
	if err != nil {
		corsError(w, "Image not found", http.StatusNotFound)
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleDeleteBill deletes a bill.
func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Bill ID required", http.StatusBadRequest)
		return
	}
	if err := s.service.DeleteBill(id, s.userID(r)); err != nil {
		slog.Error("Error deleting bill", "id", id, "error", err)
		corsError(w, "Error deleting bill", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStats returns the dashboard aggregates.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Statistics(s.userID(r))
	if err != nil {
		slog.Error("Error computing statistics", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleExport streams the user's bill history as CSV or XLSX, optionally
// narrowed to one YYYY-MM month.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	bills, err := s.service.GetUserBills(s.userID(r))
	if err != nil {
		slog.Error("Error listing bills for export", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	bills = FilterByMonth(bills, r.URL.Query().Get("month"))

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	var (
		payload     []byte
		contentType string
		filename    string
	)
	switch format {
	case "csv":
		payload, err = ExportCSV(bills)
		contentType = "text/csv; charset=utf-8"
		filename = "bills.csv"
	case "xlsx":
		payload, err = ExportXLSX(bills)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "bills.xlsx"
	default:
		corsError(w, "Unsupported export format", http.StatusBadRequest)
		return
	}
	if err != nil {
		slog.Error("Error rendering export", "format", format, "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(payload)
}

// handleIndex serves the embedded HTML shell.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}
