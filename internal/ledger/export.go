package ledger

import (
	"fmt"
	"io"
	"sort"

	"github.com/dominosyicem-blip/nakitakisi/internal/core"
)

// WriteReport renders the full ledger as a flat text report: every
// transaction sorted by date ascending with its in-group percentage, the
// grand totals, and the expense breakdown descending by amount.
func (l *Ledger) WriteReport(w io.Writer, decimals int) error {
	rows := l.Rows()
	sort.SliceStable(rows, func(i, j int) bool {
		return core.ParseDateForSort(rows[i].Date).Before(core.ParseDateForSort(rows[j].Date))
	})

	pct := l.percentFn()
	t := l.Totals()

	var lines []string
	lines = append(lines, "Cash Records", "")
	lines = append(lines, "Date | Group | Description | Amount | In-group %", "")
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s | %s | %s | %s | %.1f%%",
			row.Date, row.Group, row.Description,
			core.FormatAmount(row.Amount, decimals), pct(row)))
	}

	lines = append(lines, "", "Grand Totals", "")
	lines = append(lines,
		fmt.Sprintf("Total Income: %s", core.FormatAmount(t.Income, decimals)),
		fmt.Sprintf("Total Expense: %s", core.FormatAmount(t.Expense, decimals)),
		fmt.Sprintf("Net Cash (Income + Expense): %s", core.FormatAmount(t.NetCash, decimals)),
		fmt.Sprintf("Total Assets: %s", core.FormatAmount(t.Asset, decimals)),
		fmt.Sprintf("Total Liabilities: %s", core.FormatAmount(t.Liability, decimals)),
		fmt.Sprintf("Net Worth (Assets + Liabilities): %s", core.FormatAmount(t.NetWorth, decimals)),
	)

	lines = append(lines, "", "Expense Breakdown (by description)", "")
	breakdown := l.ExpenseBreakdown()
	if len(breakdown) == 0 {
		lines = append(lines, "No expenses.")
	}
	for _, item := range breakdown {
		lines = append(lines, fmt.Sprintf("%s: %s (%.1f%%)",
			item.Description, core.FormatAmount(item.Amount, decimals), item.Percent))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return nil
}
