package cmd

import (
	"context"
	"flag"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/renderer"
	"github.com/google/subcommands"
)

type chainsCmd struct{}

func (*chainsCmd) Name() string     { return "chains" }
func (*chainsCmd) Synopsis() string { return "display order chains from the transaction log" }
func (*chainsCmd) Usage() string {
	return `tbk chains

  Replays the transaction log and groups legs by order chain, showing
  each chain's rolls and whether it is still open.
`
}

func (*chainsCmd) SetFlags(_ *flag.FlagSet) {}

func (c *chainsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := OpenLedger()
	if err != nil {
		return fail(err)
	}
	legs, err := ledger.Journal().Legs()
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.Chains(tradebook.Chains(legs, ledger.Holdings())))
	return subcommands.ExitSuccess
}
