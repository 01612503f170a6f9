package renderer

import (
	"fmt"
	"strings"

	"github.com/taxpool/taxpool"
)

// PoolMarkdown renders the open positions of all matched pools.
func PoolMarkdown(reports []*taxpool.DisposalReport) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Open Positions\n\n")
	fmt.Fprintln(&b, "| Asset | Quantity | Fees | Cost |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	for _, r := range reports {
		if r.Open == nil {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			r.Asset.Ticker(), r.Open.Quantity, r.Open.Fees, r.Open.Cost)
	}

	return b.String()
}
