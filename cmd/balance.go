package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/taxpool/taxpool/renderer"
)

// balanceCmd holds the flags for the 'balance' subcommand.
type balanceCmd struct {
	day string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "show asset balances at the end of a day" }
func (*balanceCmd) Usage() string {
	return `tpx balance [-d <date>]

  Shows every declared asset's balance at the end of the given day.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.day, "d", "", "Date to report on, defaults to today.")
}

func (c *balanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := parseDay(c.day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	report, err := ledger.BalanceReport(day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing balances: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.BalanceMarkdown(report))
	return subcommands.ExitSuccess
}
