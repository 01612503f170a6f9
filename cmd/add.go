package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/taxpool/taxpool"
)

// addCmd holds the flags for the 'add' subcommand.
type addCmd struct {
	day    string
	memo   string
	debit  string
	credit string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "append an asset movement to the ledger" }
func (*addCmd) Usage() string {
	return `tpx add [-d <date>] [-debit <leg>] [-credit <leg>] <action>

  Appends one movement. The action is one of trade, transfer, fee, split,
  gift, income, staking, airdrop. A leg is written ASSET:AMOUNT[:FEE], e.g.
  BTC:0.5:0.0001. The debit leg is what was given up, the credit leg what was
  received; either may be omitted.

Usage Examples:
$ tpx add -d 2025-02-01 -debit USD:50000 -credit BTC:1:0.0005 trade
$ tpx add -credit ETH:0.2 staking
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.day, "d", "", "Date of the record, defaults to today.")
	f.StringVar(&c.memo, "memo", "", "Optional memo for the record.")
	f.StringVar(&c.debit, "debit", "", "Debit leg as ASSET:AMOUNT[:FEE].")
	f.StringVar(&c.credit, "credit", "", "Credit leg as ASSET:AMOUNT[:FEE].")
}

// parseLeg parses a ASSET:AMOUNT[:FEE] flag value. An empty value is an
// absent leg.
func parseLeg(s string) (*taxpool.RecordLeg, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("leg %q must be ASSET:AMOUNT[:FEE]", s)
	}
	amount, err := decimal.NewFromString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("leg %q has an invalid amount: %w", s, err)
	}
	leg := &taxpool.RecordLeg{Asset: parts[0], Amount: amount}
	if len(parts) == 3 {
		fee, err := decimal.NewFromString(parts[2])
		if err != nil {
			return nil, fmt.Errorf("leg %q has an invalid fee: %w", s, err)
		}
		leg.Fee = fee
	}
	return leg, nil
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "add requires exactly one action argument")
		return subcommands.ExitUsageError
	}
	action, err := taxpool.ParseAction(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	day, err := parseDay(c.day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	debit, err := parseLeg(c.debit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	credit, err := parseLeg(c.credit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if debit == nil && credit == nil {
		fmt.Fprintln(os.Stderr, "add requires at least one of -debit and -credit")
		return subcommands.ExitUsageError
	}
	return AppendRecords(taxpool.NewEntry(day, c.memo, action, debit, credit))
}
