package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/taxpool/taxpool/renderer"
)

// poolCmd holds the flags for the 'pool' subcommand.
type poolCmd struct{}

func (*poolCmd) Name() string     { return "pool" }
func (*poolCmd) Synopsis() string { return "show the open pooled position of every asset" }
func (*poolCmd) Usage() string {
	return `tpx pool

  Runs the matching rules and shows the residual pooled position carried
  forward for each asset.
`
}

func (c *poolCmd) SetFlags(f *flag.FlagSet) {}

func (c *poolCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	printMarkdown(renderer.PoolMarkdown(reports))
	return subcommands.ExitSuccess
}
