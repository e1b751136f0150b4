package cmd

import (
	"context"
	"flag"

	"github.com/etnz/tradebook/renderer"
	"github.com/google/subcommands"
)

type syncCmd struct{}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "reconcile positions against the broker" }
func (*syncCmd) Usage() string {
	return `tbk sync

  Fetches positions from the broker and makes them the portfolio's
  positions. Quantity mismatches are resolved in favor of the broker;
  order chains known to the ledger are preserved.
`
}

func (*syncCmd) SetFlags(_ *flag.FlagSet) {}

func (c *syncCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := OpenLedger()
	if err != nil {
		return fail(err)
	}
	if err := ledger.SyncBroker(); err != nil {
		return fail(err)
	}
	printMarkdown(renderer.Holdings(ledger.Snapshot()))
	return subcommands.ExitSuccess
}
