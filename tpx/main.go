package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/taxpool/taxpool/cmd"
)

// completion describes the CLI for shell completion. It must run before
// flag.Parse: in completion mode it answers the shell and exits.
func completion() {
	legFlags := map[string]complete.Predictor{
		"d":      predict.Nothing,
		"memo":   predict.Nothing,
		"debit":  predict.Nothing,
		"credit": predict.Nothing,
	}
	cli := &complete.Command{
		Sub: map[string]*complete.Command{
			"init":    {Flags: map[string]complete.Predictor{"d": predict.Nothing, "memo": predict.Nothing}},
			"declare": {Flags: map[string]complete.Predictor{"d": predict.Nothing, "memo": predict.Nothing, "decimals": predict.Nothing}},
			"add":     {Flags: legFlags},
			"balance": {Flags: map[string]complete.Predictor{"d": predict.Nothing}},
			"match":   {Flags: map[string]complete.Predictor{"asset": predict.Nothing}},
			"pool":    {},
			"fmt":     {},
			"import":  {Flags: map[string]complete.Predictor{"mapping": predict.Files("*.toml")}, Args: predict.Files("*.json")},
			"topic":   {Args: predict.Set{"readme", "ledger", "actions", "matching", "import"}},
		},
		Flags: map[string]complete.Predictor{
			"ledger-file": predict.Files("*.jsonl"),
			"v":           predict.Nothing,
		},
	}
	cli.Complete("tpx")
}

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
