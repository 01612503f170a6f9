package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/taxpool/taxpool"
	"github.com/taxpool/taxpool/date"
)

// initCmd holds the flags for the 'init' subcommand.
type initCmd struct {
	day  string
	memo string
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "set the ledger's base currency" }
func (*initCmd) Usage() string {
	return `tpx init <currency>

  Sets the base (valuation) currency of the ledger. Every other declared
  asset is tracked by a tax pool; the base currency is not.

Usage Examples:
$ tpx init USD
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.day, "d", "", "Date of the record, defaults to today.")
	f.StringVar(&c.memo, "memo", "", "Optional memo for the record.")
}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "init requires exactly one currency argument")
		return subcommands.ExitUsageError
	}
	day, err := parseDay(c.day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	return AppendRecords(taxpool.NewInit(day, c.memo, f.Arg(0)))
}

// parseDay parses a -d flag value, defaulting to today.
func parseDay(s string) (date.Date, error) {
	if s == "" {
		return date.Today(), nil
	}
	return date.Parse(s)
}
