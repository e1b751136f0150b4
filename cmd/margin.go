package cmd

import (
	"context"
	"flag"

	"github.com/etnz/tradebook/renderer"
	"github.com/google/subcommands"
)

type marginCmd struct{}

func (*marginCmd) Name() string     { return "margin" }
func (*marginCmd) Synopsis() string { return "estimate margin requirements per position" }
func (*marginCmd) Usage() string {
	return `tbk margin [SYMBOL=PRICE ...]

  Estimates the buying-power reduction of each position from the given
  quotes: 50% for equities, the 20%-of-underlying rule for naked short
  options, zero for long options and covered positions.
`
}

func (*marginCmd) SetFlags(_ *flag.FlagSet) {}

func (c *marginCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	quotes, err := parseQuotes(f.Args())
	if err != nil {
		return fail(err)
	}
	ledger, err := OpenLedger()
	if err != nil {
		return fail(err)
	}
	reqs := ledger.MarginRequirements(quotes)
	total := ledger.TotalMarginRequirement(quotes)
	printMarkdown(renderer.Margin(ledger.Holdings(), reqs, total))
	return subcommands.ExitSuccess
}
