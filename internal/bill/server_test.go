package bill

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"bill-tracker/internal/extraction"
)

var _ = Describe("Server", func() {
	var (
		db        *mockDB
		storage   *mockStorage
		extractor *mockExtractor
		server    *Server
		auth      BasicAuth
		now       time.Time
	)

	BeforeEach(func() {
		db = newMockDB()
		storage = newMockStorage()
		extractor = &mockExtractor{}
		auth = BasicAuth{Username: "alice", Password: "secret"}
		now = time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	})

	JustBeforeEach(func() {
		service := NewServiceWithDeps(db, extractor, storage, ModeLive,
			fixedIDGenerator{id: "bill-1"}, fixedTimeSource{now: now})
		server = NewServer(service, auth)
	})

	doRequest := func(req *http.Request) *httptest.ResponseRecorder {
		req.SetBasicAuth("alice", "secret")
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		return rec
	}

	multipartBody := func(fields map[string]string, fileField, filename string, fileData []byte) (*bytes.Buffer, string) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for k, v := range fields {
			Expect(w.WriteField(k, v)).To(Succeed())
		}
		if fileField != "" {
			part, err := w.CreateFormFile(fileField, filename)
			Expect(err).NotTo(HaveOccurred())
			_, err = part.Write(fileData)
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(w.Close()).To(Succeed())
		return &buf, w.FormDataContentType()
	}

	Describe("authentication", func() {
		It("should reject requests without credentials", func() {
			req := httptest.NewRequest("GET", "/api/bills", nil)
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(rec.Header().Get("WWW-Authenticate")).To(ContainSubstring("Basic"))
		})

		It("should reject wrong credentials", func() {
			req := httptest.NewRequest("GET", "/api/bills", nil)
			req.SetBasicAuth("alice", "wrong")
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		When("auth is not configured", func() {
			BeforeEach(func() {
				auth = BasicAuth{}
			})

			It("should allow anonymous requests under the default user", func() {
				db.bills["a"] = &Bill{ID: "a", UserID: "default"}

				req := httptest.NewRequest("GET", "/api/bills", nil)
				rec := httptest.NewRecorder()
				server.ServeHTTP(rec, req)

				Expect(rec.Code).To(Equal(http.StatusOK))
				var bills []*Bill
				Expect(json.Unmarshal(rec.Body.Bytes(), &bills)).To(Succeed())
				Expect(bills).To(HaveLen(1))
			})
		})
	})

	Describe("POST /api/bills/extract", func() {
		BeforeEach(func() {
			extractor.candidate = extraction.Candidate{
				Provider:    "HEP",
				Type:        extraction.Electricity,
				AmountCents: 6599,
			}
		})

		It("should return the extracted candidate", func() {
			body, contentType := multipartBody(nil, "file", "hep.jpg", []byte("img"))
			req := httptest.NewRequest("POST", "/api/bills/extract", body)
			req.Header.Set("Content-Type", contentType)

			rec := doRequest(req)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var candidate extraction.Candidate
			Expect(json.Unmarshal(rec.Body.Bytes(), &candidate)).To(Succeed())
			Expect(candidate.Provider).To(Equal("HEP"))
			Expect(candidate.AmountCents).To(Equal(6599))
			Expect(extractor.calls).To(Equal(1))
		})

		It("should reject a request without a file", func() {
			body, contentType := multipartBody(map[string]string{"other": "x"}, "", "", nil)
			req := httptest.NewRequest("POST", "/api/bills/extract", body)
			req.Header.Set("Content-Type", contentType)

			rec := doRequest(req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /api/bills", func() {
		It("should save a bill with an image", func() {
			body, contentType := multipartBody(map[string]string{
				"provider":     "HEP",
				"type":         "electricity",
				"amount_cents": "6599",
				"bill_date":    "2026-08-15",
			}, "file", "hep.jpg", []byte("img"))
			req := httptest.NewRequest("POST", "/api/bills", body)
			req.Header.Set("Content-Type", contentType)

			rec := doRequest(req)
			Expect(rec.Code).To(Equal(http.StatusCreated))

			var bill Bill
			Expect(json.Unmarshal(rec.Body.Bytes(), &bill)).To(Succeed())
			Expect(bill.ID).To(Equal("bill-1"))
			Expect(bill.UserID).To(Equal("alice"))
			Expect(storage.files).To(HaveKey("bill-1_hep.jpg"))
		})

		It("should save a hand-entered bill without an image", func() {
			body, contentType := multipartBody(map[string]string{
				"provider":     "A1",
				"type":         "phone",
				"amount_cents": "2500",
			}, "", "", nil)
			req := httptest.NewRequest("POST", "/api/bills", body)
			req.Header.Set("Content-Type", contentType)

			rec := doRequest(req)
			Expect(rec.Code).To(Equal(http.StatusCreated))
			Expect(storage.files).To(BeEmpty())
		})

		It("should reject a non-integer amount", func() {
			body, contentType := multipartBody(map[string]string{
				"amount_cents": "65,99",
			}, "", "", nil)
			req := httptest.NewRequest("POST", "/api/bills", body)
			req.Header.Set("Content-Type", contentType)

			rec := doRequest(req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /api/bills", func() {
		It("should list only the authenticated user's bills", func() {
			db.bills["a"] = &Bill{ID: "a", UserID: "alice", BillDate: "2026-08-10"}
			db.bills["b"] = &Bill{ID: "b", UserID: "bob", BillDate: "2026-08-11"}

			rec := doRequest(httptest.NewRequest("GET", "/api/bills", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))

			var bills []*Bill
			Expect(json.Unmarshal(rec.Body.Bytes(), &bills)).To(Succeed())
			Expect(bills).To(HaveLen(1))
			Expect(bills[0].ID).To(Equal("a"))
		})
	})

	Describe("GET /api/bills/{id}", func() {
		BeforeEach(func() {
			db.bills["a"] = &Bill{ID: "a", UserID: "alice", Provider: "HEP"}
			db.bills["b"] = &Bill{ID: "b", UserID: "bob"}
		})

		It("should return the bill", func() {
			rec := doRequest(httptest.NewRequest("GET", "/api/bills/a", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))

			var bill Bill
			Expect(json.Unmarshal(rec.Body.Bytes(), &bill)).To(Succeed())
			Expect(bill.Provider).To(Equal("HEP"))
		})

		It("should 404 for another user's bill", func() {
			rec := doRequest(httptest.NewRequest("GET", "/api/bills/b", nil))
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("should 404 for an unknown bill", func() {
			rec := doRequest(httptest.NewRequest("GET", "/api/bills/nope", nil))
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("GET /api/bills/{id}/image", func() {
		BeforeEach(func() {
			db.bills["a"] = &Bill{ID: "a", UserID: "alice", ImagePath: "a_hep.jpg", ContentType: "image/jpeg"}
			storage.files["a_hep.jpg"] = []byte("image-bytes")
		})

		It("should return the stored image with its content type", func() {
			rec := doRequest(httptest.NewRequest("GET", "/api/bills/a/image", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("image/jpeg"))
			Expect(rec.Body.Bytes()).To(Equal([]byte("image-bytes")))
		})

		It("should 404 when the bill has no image", func() {
			db.bills["a"].ImagePath = ""
			rec := doRequest(httptest.NewRequest("GET", "/api/bills/a/image", nil))
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("DELETE /api/bills/{id}", func() {
		BeforeEach(func() {
			db.bills["a"] = &Bill{ID: "a", UserID: "alice", ImagePath: "a_hep.jpg"}
			storage.files["a_hep.jpg"] = []byte("img")
		})

		It("should delete the bill and respond 204", func() {
			rec := doRequest(httptest.NewRequest("DELETE", "/api/bills/a", nil))
			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(db.bills).NotTo(HaveKey("a"))
			Expect(storage.deleted).To(ContainElement("a_hep.jpg"))
		})
	})

	Describe("GET /api/stats", func() {
		It("should return the aggregates", func() {
			db.bills["a"] = &Bill{ID: "a", UserID: "alice", Provider: "HEP", Type: extraction.Electricity, AmountCents: 6000, BillDate: "2026-08-15"}
			db.bills["b"] = &Bill{ID: "b", UserID: "alice", Provider: "A1", Type: extraction.Phone, AmountCents: 2500, BillDate: "2026-08-20"}

			rec := doRequest(httptest.NewRequest("GET", "/api/stats", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))

			var stats Statistics
			Expect(json.Unmarshal(rec.Body.Bytes(), &stats)).To(Succeed())
			Expect(stats.BillCount).To(Equal(2))
			Expect(stats.TotalCents).To(Equal(8500))
			Expect(stats.ByProvider[0].Provider).To(Equal("HEP"))
		})
	})

	Describe("GET /api/bills/export", func() {
		BeforeEach(func() {
			db.bills["a"] = &Bill{ID: "a", UserID: "alice", Provider: "HEP", AmountCents: 6599, BillDate: "2026-08-15"}
			db.bills["b"] = &Bill{ID: "b", UserID: "alice", Provider: "A1", AmountCents: 2500, BillDate: "2026-07-10"}
		})

		It("should default to CSV", func() {
			rec := doRequest(httptest.NewRequest("GET", "/api/bills/export", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(ContainSubstring("text/csv"))
			Expect(rec.Header().Get("Content-Disposition")).To(ContainSubstring("bills.csv"))
			Expect(rec.Body.String()).To(ContainSubstring("HEP"))
			Expect(rec.Body.String()).To(ContainSubstring("65.99"))
		})

		It("should filter by month", func() {
			rec := doRequest(httptest.NewRequest("GET", "/api/bills/export?month=2026-07", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("A1"))
			Expect(rec.Body.String()).NotTo(ContainSubstring("HEP"))
		})

		It("should render XLSX when asked", func() {
			rec := doRequest(httptest.NewRequest("GET", "/api/bills/export?format=xlsx", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(ContainSubstring("spreadsheetml"))
			Expect(rec.Body.Len()).To(BeNumerically(">", 0))
		})

		It("should reject an unknown format", func() {
			rec := doRequest(httptest.NewRequest("GET", "/api/bills/export?format=pdf", nil))
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /", func() {
		It("should serve the HTML shell", func() {
			rec := doRequest(httptest.NewRequest("GET", "/", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(ContainSubstring("text/html"))
		})
	})
})
