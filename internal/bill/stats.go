package bill

import (
	"sort"
	"strings"

	"bill-tracker/internal/extraction"
)

// Statistics summarizes a user's bills for the dashboard: totals, averages
// and breakdowns by provider, utility type and month.
type Statistics struct {
	TotalCents   int             `json:"total_cents"`
	BillCount    int             `json:"bill_count"`
	AverageCents int             `json:"average_cents"`
	ByProvider   []ProviderTotal `json:"by_provider"`
	ByType       []TypeTotal     `json:"by_type"`
	ByMonth      []MonthTotal    `json:"by_month"`
}

type ProviderTotal struct {
	Provider string `json:"provider"`
	Cents    int    `json:"cents"`
	Count    int    `json:"count"`
}

type TypeTotal struct {
	Type  extraction.UtilityType `json:"type"`
	Cents int                    `json:"cents"`
	Count int                    `json:"count"`
}

// MonthTotal keys months as YYYY-MM, taken from the bill date (falling back
// to the creation time for bills whose date never parsed).
type MonthTotal struct {
	Month string `json:"month"`
	Cents int    `json:"cents"`
	Count int    `json:"count"`
}

func computeStatistics(bills []*Bill) *Statistics {
	stats := &Statistics{
		BillCount:  len(bills),
		ByProvider: []ProviderTotal{},
		ByType:     []TypeTotal{},
		ByMonth:    []MonthTotal{},
	}

	byProvider := make(map[string]*ProviderTotal)
	byType := make(map[extraction.UtilityType]*TypeTotal)
	byMonth := make(map[string]*MonthTotal)

	for _, b := range bills {
		stats.TotalCents += b.AmountCents

		provider := b.Provider
		if provider == "" {
			provider = "Unknown"
		}
		if pt, ok := byProvider[provider]; ok {
			pt.Cents += b.AmountCents
			pt.Count++
		} else {
			byProvider[provider] = &ProviderTotal{Provider: provider, Cents: b.AmountCents, Count: 1}
		}

		if tt, ok := byType[b.Type]; ok {
			tt.Cents += b.AmountCents
			tt.Count++
		} else {
			byType[b.Type] = &TypeTotal{Type: b.Type, Cents: b.AmountCents, Count: 1}
		}

		month := billMonth(b)
		if mt, ok := byMonth[month]; ok {
			mt.Cents += b.AmountCents
			mt.Count++
		} else {
			byMonth[month] = &MonthTotal{Month: month, Cents: b.AmountCents, Count: 1}
		}
	}

	if stats.BillCount > 0 {
		stats.AverageCents = stats.TotalCents / stats.BillCount
	}

	for _, pt := range byProvider {
		stats.ByProvider = append(stats.ByProvider, *pt)
	}
	sort.Slice(stats.ByProvider, func(i, j int) bool {
		if stats.ByProvider[i].Cents != stats.ByProvider[j].Cents {
			return stats.ByProvider[i].Cents > stats.ByProvider[j].Cents
		}
		return stats.ByProvider[i].Provider < stats.ByProvider[j].Provider
	})

	for _, tt := range byType {
		stats.ByType = append(stats.ByType, *tt)
	}
	sort.Slice(stats.ByType, func(i, j int) bool {
		if stats.ByType[i].Cents != stats.ByType[j].Cents {
			return stats.ByType[i].Cents > stats.ByType[j].Cents
		}
		return stats.ByType[i].Type < stats.ByType[j].Type
	})

	for _, mt := range byMonth {
		stats.ByMonth = append(stats.ByMonth, *mt)
	}
	sort.Slice(stats.ByMonth, func(i, j int) bool {
		return stats.ByMonth[i].Month < stats.ByMonth[j].Month
	})

	return stats
}

func billMonth(b *Bill) string {
	if len(b.BillDate) >= 7 {
		return b.BillDate[:7]
	}
	return b.CreatedAt.Format("2006-01")
}

// sortBills orders bills by bill date descending, newest first; undated
// bills sink to the end.
func sortBills(bills []*Bill) {
	sort.Slice(bills, func(i, j int) bool {
		di, dj := bills[i].BillDate, bills[j].BillDate
		if di == dj {
			return bills[i].CreatedAt.After(bills[j].CreatedAt)
		}
		if di == "" {
			return false
		}
		if dj == "" {
			return true
		}
		return strings.Compare(di, dj) > 0
	})
}
