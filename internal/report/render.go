package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	summaryTitle      = "Asset Summary Report"
	depreciationTitle = "Depreciation Report"
	titleRule         = "=================="
)

// WriteCategorySummary renders rows as a fixed-width text table.
func WriteCategorySummary(w io.Writer, rows []CategoryRow) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s\n%s\n\n", summaryTitle, titleRule)
	fmt.Fprintf(bw, "%-20s %8s %12s %12s\n", "Category", "Count", "Total Value", "Avg Value")
	fmt.Fprintln(bw, strings.Repeat("-", 56))

	for _, r := range rows {
		fmt.Fprintf(bw, "%-20s %8d $%11s $%11s\n",
			r.Category,
			r.Count,
			r.Total.StringFixed(2),
			r.Average.StringFixed(2),
		)
	}

	return bw.Flush()
}

// WriteDepreciation renders rows as a fixed-width text table, using the
// truncated display name.
func WriteDepreciation(w io.Writer, rows []DepreciationRow) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s\n%s\n\n", depreciationTitle, titleRule)
	fmt.Fprintf(bw, "%-25s %-15s %12s %12s %8s %12s\n",
		"Asset Name", "Category", "Original", "Current", "Rate%", "Purchase Date")
	fmt.Fprintln(bw, strings.Repeat("-", 81))

	for _, r := range rows {
		fmt.Fprintf(bw, "%-25s %-15s $%11s $%11s %7s%% %12s\n",
			r.DisplayName,
			r.Category,
			r.Cost.StringFixed(2),
			r.CurrentValue.StringFixed(2),
			r.DepreciationRate.StringFixed(1),
			r.PurchaseDate,
		)
	}

	return bw.Flush()
}
