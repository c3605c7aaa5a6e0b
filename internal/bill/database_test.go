package bill

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"bill-tracker/internal/extraction"
)

var _ = Describe("BoltDB", func() {
	var db *BoltDB

	BeforeEach(func() {
		var err error
		db, err = NewBoltDB(filepath.Join(GinkgoT().TempDir(), "bills.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(db.Close()).To(Succeed())
	})

	newBill := func(id, userID string) *Bill {
		return &Bill{
			ID:          id,
			UserID:      userID,
			Provider:    "HEP",
			Type:        extraction.Electricity,
			AmountCents: 6599,
			BillDate:    "2026-08-15",
			CreatedAt:   time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC),
		}
	}

	Describe("SaveBill and GetBill", func() {
		It("should round-trip a bill", func() {
			Expect(db.SaveBill(newBill("b1", "user-1"))).To(Succeed())

			got, err := db.GetBill("b1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Provider).To(Equal("HEP"))
			Expect(got.AmountCents).To(Equal(6599))
			Expect(got.Type).To(Equal(extraction.Electricity))
			Expect(got.CreatedAt.Equal(time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC))).To(BeTrue())
		})

		It("should overwrite on repeated save", func() {
			b := newBill("b1", "user-1")
			Expect(db.SaveBill(b)).To(Succeed())
			b.AmountCents = 7000
			Expect(db.SaveBill(b)).To(Succeed())

			got, err := db.GetBill("b1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.AmountCents).To(Equal(7000))
		})

		It("should error for a missing bill", func() {
			_, err := db.GetBill("nope")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ListBills", func() {
		It("should return only the requested user's bills", func() {
			Expect(db.SaveBill(newBill("b1", "user-1"))).To(Succeed())
			Expect(db.SaveBill(newBill("b2", "user-1"))).To(Succeed())
			Expect(db.SaveBill(newBill("b3", "user-2"))).To(Succeed())

			bills, err := db.ListBills("user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(bills).To(HaveLen(2))
		})

		It("should return an empty slice for an unknown user", func() {
			bills, err := db.ListBills("nobody")
			Expect(err).NotTo(HaveOccurred())
			Expect(bills).To(BeEmpty())
		})
	})

	Describe("DeleteBill", func() {
		It("should remove the bill", func() {
			Expect(db.SaveBill(newBill("b1", "user-1"))).To(Succeed())
			Expect(db.DeleteBill("b1")).To(Succeed())

			_, err := db.GetBill("b1")
			Expect(err).To(HaveOccurred())
		})

		It("should tolerate deleting a missing bill", func() {
			Expect(db.DeleteBill("nope")).To(Succeed())
		})
	})
})
