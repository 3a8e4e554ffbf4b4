package ledger

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"mitramandal-backend/internal/domain"
)

// Period is a calendar month in UTC.
type Period struct {
	Year  int
	Month time.Month
}

func PeriodOf(t time.Time) Period {
	u := t.UTC()
	return Period{Year: u.Year(), Month: u.Month()}
}

// PreviousPeriod is the calendar month before the one containing now.
func PreviousPeriod(now time.Time) Period {
	u := now.UTC()
	first := time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
	return PeriodOf(first.AddDate(0, -1, 0))
}

type groupKey struct {
	year   int
	month  time.Month
	itemID string
}

// GroupMonthly keeps, for every (year, month, item) the member took part in,
// only the latest non-deleted transaction. Groups come back newest period
// first, items ascending within a period.
func GroupMonthly(memberID string, txns []domain.Transaction) []domain.MonthlyGroup {
	latest := make(map[groupKey]domain.Transaction)
	for _, t := range txns {
		if t.IsDeleted || !t.HasMember(memberID) {
			continue
		}
		p := PeriodOf(t.CreatedAt)
		k := groupKey{year: p.Year, month: p.Month, itemID: t.ItemID}
		cur, ok := latest[k]
		if !ok || t.CreatedAt.After(cur.CreatedAt) ||
			(t.CreatedAt.Equal(cur.CreatedAt) && t.ID > cur.ID) {
			latest[k] = t
		}
	}

	groups := make([]domain.MonthlyGroup, 0, len(latest))
	for k, t := range latest {
		groups = append(groups, domain.MonthlyGroup{
			Year:        k.year,
			Month:       k.month,
			ItemID:      k.itemID,
			Transaction: t,
		})
	}
	SortGroups(groups)
	return groups
}

// SortGroups orders groups by year desc, month desc, item asc.
func SortGroups(groups []domain.MonthlyGroup) {
	slices.SortStableFunc(groups, func(a, b domain.MonthlyGroup) int {
		if c := cmp.Compare(b.Year, a.Year); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Month, a.Month); c != 0 {
			return c
		}
		return cmp.Compare(a.ItemID, b.ItemID)
	})
}

// Summarize totals the groups of the target period and the present balances
// of the member's items.
func Summarize(groups []domain.MonthlyGroup, items []domain.Item, target Period) domain.Summary {
	s := domain.Summary{
		TotalPrincipalAmount:  decimal.Zero,
		TotalLoanAmount:       decimal.Zero,
		TotalSettlementAmount: decimal.Zero,
		LastTransactionDetails: domain.PeriodTotals{
			PrincipalAmount:    decimal.Zero,
			LoanInterestAmount: decimal.Zero,
			LoanEMI:            decimal.Zero,
			TotalAmount:        decimal.Zero,
			AmountReturned:     decimal.Zero,
			PenaltyAmount:      decimal.Zero,
			SettlementAmount:   decimal.Zero,
		},
	}

	d := &s.LastTransactionDetails
	for _, g := range groups {
		if g.Year != target.Year || g.Month != target.Month {
			continue
		}
		t := g.Transaction
		d.PrincipalAmount = d.PrincipalAmount.Add(t.PrincipalAmount)
		d.LoanInterestAmount = d.LoanInterestAmount.Add(t.LoanInterestAmount)
		d.LoanEMI = d.LoanEMI.Add(t.LoanEMI)
		d.TotalAmount = d.TotalAmount.Add(t.TotalAmount)
		d.AmountReturned = d.AmountReturned.Add(t.AmountReturned)
		d.PenaltyAmount = d.PenaltyAmount.Add(t.PenaltyAmount)
		d.SettlementAmount = d.SettlementAmount.Add(t.SettlementAmount)
		if s.LastTransactionDate == nil || t.CreatedAt.After(*s.LastTransactionDate) {
			at := t.CreatedAt
			s.LastTransactionDate = &at
		}
	}

	for _, it := range items {
		s.TotalPrincipalAmount = s.TotalPrincipalAmount.Add(it.CurrentPrincipalAmount)
		s.TotalLoanAmount = s.TotalLoanAmount.Add(it.LoanAmount)
		s.TotalSettlementAmount = s.TotalSettlementAmount.Add(it.SettlementAmount)
	}
	return s
}

// Rollup groups a member's raw transaction history and summarizes it.
func Rollup(memberID string, txns []domain.Transaction, items []domain.Item, target Period) domain.Summary {
	return Summarize(GroupMonthly(memberID, txns), items, target)
}
