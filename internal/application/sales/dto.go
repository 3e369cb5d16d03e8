package sales

import (
	"github.com/shopspring/decimal"

	"github.com/vivo/salesops-backend/internal/domain/sales"
)

// ListFooter carries the display sums rendered under a header list. The
// sums cover exactly the returned rows; they are presentation totals, not
// recomputed business values.
type ListFooter struct {
	TotalTarget           decimal.Decimal `json:"total_target"`
	TotalAchieved         decimal.Decimal `json:"total_achieved"`
	TotalCommissionEarned decimal.Decimal `json:"total_commission_earned"`
}

// HeaderList is a page of headers plus its footer.
type HeaderList struct {
	Rows   []sales.Header `json:"rows"`
	Footer ListFooter     `json:"footer"`
}

// footerFor sums the server-computed columns of the given rows.
func footerFor(rows []sales.Header) ListFooter {
	var footer ListFooter
	for _, row := range rows {
		footer.TotalTarget = footer.TotalTarget.Add(decimal.NewFromFloat(row.TotalTarget))
		footer.TotalAchieved = footer.TotalAchieved.Add(decimal.NewFromFloat(row.TotalAchieved))
		footer.TotalCommissionEarned = footer.TotalCommissionEarned.Add(decimal.NewFromFloat(row.TotalCommissionEarned))
	}
	return footer
}

// OverviewFooter carries the display sums under the sales overview.
type OverviewFooter struct {
	TotalSalesInLiters    decimal.Decimal `json:"total_sales_in_liters"`
	TotalCommissionLiters decimal.Decimal `json:"total_commission_liters"`
	TotalCommissionValue  decimal.Decimal `json:"total_commission_value"`
	TotalTarget           decimal.Decimal `json:"total_target"`
}

// OverviewList is a page of overview rows plus its footer.
type OverviewList struct {
	Rows   []sales.Overview `json:"rows"`
	Footer OverviewFooter   `json:"footer"`
}

func overviewFooterFor(rows []sales.Overview) OverviewFooter {
	var footer OverviewFooter
	for _, row := range rows {
		footer.TotalSalesInLiters = footer.TotalSalesInLiters.Add(decimal.NewFromFloat(row.TotalSalesInLiters))
		footer.TotalCommissionLiters = footer.TotalCommissionLiters.Add(decimal.NewFromFloat(row.TotalCommissionLiters))
		footer.TotalCommissionValue = footer.TotalCommissionValue.Add(decimal.NewFromFloat(row.TotalCommissionValue))
		footer.TotalTarget = footer.TotalTarget.Add(decimal.NewFromFloat(row.TotalTarget))
	}
	return footer
}
