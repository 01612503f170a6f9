package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/taxpool/taxpool"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `tpx fmt

  Validates and formats the ledger file. This command reads all records,
  validates them, applies available quick-fixes (like defaulted decimals),
  sorts them by date, and writes them back in a canonical JSONL format.
`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	// Re-validate record by record so quick fixes are persisted.
	canonical := taxpool.NewLedger()
	for _, rec := range ledger.Records() {
		fixed, err := canonical.Validate(rec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid record on %s: %v\n", rec.When(), err)
			return subcommands.ExitFailure
		}
		canonical.Append(fixed)
	}

	filename := LedgerFile()
	f2, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer f2.Close()

	if err := taxpool.EncodeLedger(f2, canonical); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "Formatted ledger %q.\n", filename)
	return subcommands.ExitSuccess
}
