package renderer

import (
	"fmt"
	"strings"

	"github.com/taxpool/taxpool"
)

// BalanceMarkdown renders end-of-day balances as a markdown table.
func BalanceMarkdown(report *taxpool.BalanceReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Balances on %s\n\n", report.Date)
	fmt.Fprintln(&b, "| Asset | Quantity |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, ab := range report.Balances {
		fmt.Fprintf(&b, "| %s | %s |\n", ab.Asset.Ticker(), ab.Quantity)
	}

	return b.String()
}
