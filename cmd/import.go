package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/phuslu/log"

	"github.com/taxpool/taxpool"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	mapping string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import ledger entries from an exchange JSON export" }
func (*importCmd) Usage() string {
	return `tpx import -mapping <mapping.toml> <export.json>

  Imports entries from an exchange export. The mapping file declares, in
  TOML, the jsonpath of the rows and of each entry field within a row; the
  selected entries are validated and appended to the ledger.

Usage Examples:
$ tpx import -mapping kraken.toml trades.json
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.mapping, "mapping", "", "TOML file mapping export fields to entry fields.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.mapping == "" || f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "import requires -mapping and exactly one export file argument")
		return subcommands.ExitUsageError
	}

	mf, err := os.Open(c.mapping)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening mapping %q: %v\n", c.mapping, err)
		return subcommands.ExitFailure
	}
	defer mf.Close()
	mapping, err := taxpool.ReadImportMapping(mf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading mapping %q: %v\n", c.mapping, err)
		return subcommands.ExitFailure
	}

	ef, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening export %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	defer ef.Close()

	records, err := mapping.Import(ef)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	log.Debug().Str("mapping", mapping.Name).Int("records", len(records)).Msg("export parsed")

	return AppendRecords(records...)
}
