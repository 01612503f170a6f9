// Package cmd implements the CLI application to manage a tax-lot ledger.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/subcommands"
	"github.com/phuslu/log"

	"github.com/taxpool/taxpool"
)

// Commands lists every subcommand of the application. A main package
// registers them on a commander and executes the user-selected one.
var Commands = []subcommands.Command{
	&initCmd{},
	&declareCmd{},
	&addCmd{},
	&balanceCmd{},
	&matchCmd{},
	&poolCmd{},
	&fmtCmd{},
	&importCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "", "Path to the ledger file (JSONL format). Overrides the config file.")
var verbose = flag.Bool("v", false, "Enable verbose diagnostics on stderr.")

// setupLogging configures the diagnostics logger. The library itself never
// logs; only the commands do.
func setupLogging() {
	level := log.WarnLevel
	if *verbose || Config().Verbose {
		level = log.DebugLevel
	}
	log.DefaultLogger = log.Logger{
		Level:  level,
		Writer: &log.ConsoleWriter{ColorOutput: true, Writer: os.Stderr},
	}
}

// LedgerFile resolves the ledger path: flag first, then config, then the
// default.
func LedgerFile() string {
	if *ledgerFile != "" {
		return *ledgerFile
	}
	if f := Config().Ledger; f != "" {
		return f
	}
	return "taxpool.jsonl"
}

// DecodeLedger reads and checks the app ledger file. A missing file is a
// valid empty ledger, so first-run commands can bootstrap it.
func DecodeLedger() (*taxpool.Ledger, error) {
	setupLogging()
	filename := LedgerFile()
	f, err := os.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("file", filename).Msg("ledger does not exist, starting empty")
		return taxpool.NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger %q: %w", filename, err)
	}
	defer f.Close()

	ledger, err := taxpool.DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read ledger %q: %w", filename, err)
	}
	if err := ledger.Check(); err != nil {
		return nil, fmt.Errorf("invalid ledger %q: %w", filename, err)
	}
	log.Debug().Str("file", filename).Msg("ledger loaded")
	return ledger, nil
}

// AppendRecords validates records against the app ledger and appends them to
// the ledger file.
func AppendRecords(recs ...taxpool.Record) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	validated := make([]taxpool.Record, 0, len(recs))
	for _, rec := range recs {
		v, err := ledger.Validate(rec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid record: %v\n", err)
			return subcommands.ExitFailure
		}
		validated = append(validated, v)
		ledger.Append(v)
	}
	// Appending may create an end-of-day overdraft even when each record is
	// individually valid.
	if err := ledger.Check(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	filename := LedgerFile()
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	for _, rec := range validated {
		if err := taxpool.EncodeRecord(f, rec); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing to ledger file %q: %v\n", filename, err)
			return subcommands.ExitFailure
		}
	}

	fmt.Printf("Successfully appended %d record(s) to %s\n", len(validated), filename)
	return subcommands.ExitSuccess
}
