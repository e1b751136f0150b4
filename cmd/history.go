package cmd

import (
	"context"
	"flag"

	"github.com/etnz/tradebook/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the transaction log" }
func (*historyCmd) Usage() string {
	return `tbk history

  Displays every leg recorded in the append-only transaction log, in
  order of execution.
`
}

func (*historyCmd) SetFlags(_ *flag.FlagSet) {}

func (c *historyCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := OpenLedger()
	if err != nil {
		return fail(err)
	}
	legs, err := ledger.Journal().Legs()
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.Legs("Transactions", legs))
	return subcommands.ExitSuccess
}
