package bill

import (
	"fmt"
	"time"

	"bill-tracker/internal/extraction"
)

// demoSeed is the sample dataset served in demo mode: one bill per utility
// type from a well-known Croatian provider, dated relative to now so the
// dashboard always shows recent months.
var demoSeed = []struct {
	provider    string
	utilityType extraction.UtilityType
	amountCents int
	monthsAgo   int
	day         int
}{
	{"HEP", extraction.Electricity, 6599, 0, 15},
	{"Hrvatske vode", extraction.Water, 3250, 0, 10},
	{"Gradska plinara Zagreb", extraction.Gas, 4575, 0, 5},
	{"Hrvatski Telekom", extraction.Internet, 2999, 0, 1},
	{"A1", extraction.Phone, 2500, 1, 28},
	{"Hrvatska Radiotelevizija", extraction.TV, 1062, 1, 20},
	{"HEP", extraction.Electricity, 7120, 1, 15},
	{"Hrvatske vode", extraction.Water, 3105, 1, 10},
	{"Hrvatski Telekom", extraction.Internet, 2999, 2, 1},
	{"HEP", extraction.Electricity, 6844, 2, 15},
}

// demoBills materializes the read-only demo dataset for a user.
func demoBills(userID string, now time.Time) []*Bill {
	bills := make([]*Bill, 0, len(demoSeed))
	for i, seed := range demoSeed {
		date := time.Date(now.Year(), now.Month()-time.Month(seed.monthsAgo), seed.day, 0, 0, 0, 0, time.UTC)
		bills = append(bills, &Bill{
			ID:          fmt.Sprintf("demo-%d", i+1),
			UserID:      userID,
			Provider:    seed.provider,
			Type:        seed.utilityType,
			AmountCents: seed.amountCents,
			BillDate:    date.Format("2006-01-02"),
			CreatedAt:   date,
			UpdatedAt:   date,
		})
	}
	sortBills(bills)
	return bills
}
