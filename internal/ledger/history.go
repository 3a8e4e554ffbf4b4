package ledger

import (
	"cmp"
	"slices"
	"strings"

	"mitramandal-backend/internal/domain"
)

// MonthName is the upper-case three letter month used in history listings.
func MonthName(p Period) string {
	return strings.ToUpper(p.Month.String()[:3])
}

// History arranges an item's non-deleted transactions by year and month,
// newest first at every level.
func History(txns []domain.Transaction) []domain.YearHistory {
	sorted := make([]domain.Transaction, 0, len(txns))
	for _, t := range txns {
		if !t.IsDeleted {
			sorted = append(sorted, t)
		}
	}
	slices.SortStableFunc(sorted, func(a, b domain.Transaction) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	var years []domain.YearHistory
	var last Period
	for _, t := range sorted {
		p := PeriodOf(t.CreatedAt)
		if len(years) == 0 || years[len(years)-1].Year != p.Year {
			years = append(years, domain.YearHistory{Year: p.Year})
		}
		y := &years[len(years)-1]
		if len(y.Months) == 0 || last != p {
			y.Months = append(y.Months, domain.MonthHistory{Month: MonthName(p)})
		}
		m := &y.Months[len(y.Months)-1]
		m.Transactions = append(m.Transactions, t)
		last = p
	}
	slices.SortStableFunc(years, func(a, b domain.YearHistory) int { return cmp.Compare(b.Year, a.Year) })
	return years
}
