package cmd

import (
	"context"
	"flag"

	"github.com/etnz/tradebook/renderer"
	"github.com/google/subcommands"
)

type holdingsCmd struct{}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display current positions and cash" }
func (*holdingsCmd) Usage() string {
	return `tbk holdings

  Displays the portfolio positions (cash, equities and options) as held
  in the snapshot file.
`
}

func (*holdingsCmd) SetFlags(_ *flag.FlagSet) {}

func (c *holdingsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := OpenLedger()
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.Holdings(ledger.Snapshot()))
	return subcommands.ExitSuccess
}
