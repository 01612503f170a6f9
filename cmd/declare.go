package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/taxpool/taxpool"
)

// declareCmd holds the flags for the 'declare' subcommand.
type declareCmd struct {
	day      string
	memo     string
	decimals int
}

func (*declareCmd) Name() string     { return "declare" }
func (*declareCmd) Synopsis() string { return "declare an asset ticker and its precision" }
func (*declareCmd) Usage() string {
	return `tpx declare [-decimals <n>] <ticker>

  Declares an asset for use in the ledger. Amounts of the asset are tracked
  in subunits of 10^-decimals (0 to 8). When -decimals is omitted for a known
  currency code, the ISO-4217 fraction is used.

Usage Examples:
$ tpx declare -decimals 8 BTC
$ tpx declare EUR
`
}

func (c *declareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.day, "d", "", "Date of the record, defaults to today.")
	f.StringVar(&c.memo, "memo", "", "Optional memo for the record.")
	f.IntVar(&c.decimals, "decimals", -1, "Subunit precision (0..8). Defaults from the currency table.")
}

func (c *declareCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "declare requires exactly one ticker argument")
		return subcommands.ExitUsageError
	}
	day, err := parseDay(c.day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	return AppendRecords(taxpool.NewDeclare(day, c.memo, f.Arg(0), int32(c.decimals)))
}
