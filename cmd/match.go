package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/taxpool/taxpool/renderer"
)

// matchCmd holds the flags for the 'match' subcommand.
type matchCmd struct {
	asset string
}

func (*matchCmd) Name() string     { return "match" }
func (*matchCmd) Synopsis() string { return "run the matching rules and report realized lots" }
func (*matchCmd) Usage() string {
	return `tpx match [-asset <ticker>]

  Runs the tax-lot matching rules over the whole ledger (same-day rule, then
  the 30-day rule, then the pooled-average rule) and reports the realized
  lots of every asset, or of a single asset with -asset.
`
}

func (c *matchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", "", "Report a single asset by ticker.")
}

func (c *matchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	reports, err := ledger.DisposalReports()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error matching: %v\n", err)
		return subcommands.ExitFailure
	}

	var b strings.Builder
	found := false
	for _, report := range reports {
		if c.asset != "" && report.Asset.Ticker() != c.asset {
			continue
		}
		found = true
		b.WriteString(renderer.RenderDisposals(report))
		b.WriteString("\n")
	}
	if c.asset != "" && !found {
		fmt.Fprintf(os.Stderr, "No pool for asset %q\n", c.asset)
		return subcommands.ExitFailure
	}
	if !found {
		fmt.Fprintln(os.Stderr, "No pooled asset movement in the ledger.")
		return subcommands.ExitSuccess
	}

	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
