package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/renderer"
	"github.com/google/subcommands"
)

type openCmd struct{}

func (*openCmd) Name() string     { return "open" }
func (*openCmd) Synopsis() string { return "open new positions" }
func (*openCmd) Usage() string {
	return `tbk open SYMBOL:QTY:PRICE [SYMBOL:QTY:PRICE ...]

  Executes a transaction opening (or adding to) positions. A positive
  quantity buys to open, a negative one sells to open. Option symbols
  contain spaces and must be quoted:

    tbk open "SPY   250411C00440000:-1:2.50"
`
}

func (*openCmd) SetFlags(_ *flag.FlagSet) {}

func (c *openCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runTrade(f.Args(), func(l *tradebook.Ledger, tx tradebook.Transaction) ([]tradebook.CloseEvent, error) {
		return l.ExecuteOpen(tx)
	})
}

type closeCmd struct{}

func (*closeCmd) Name() string     { return "close" }
func (*closeCmd) Synopsis() string { return "close existing positions" }
func (*closeCmd) Usage() string {
	return `tbk close SYMBOL:QTY:PRICE [SYMBOL:QTY:PRICE ...]

  Executes a transaction closing (or reducing) positions. The quantity
  sign is the trade direction: sell a long with a negative quantity,
  buy back a short with a positive one. Closing a position that is not
  held is rejected.
`
}

func (*closeCmd) SetFlags(_ *flag.FlagSet) {}

func (c *closeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runTrade(f.Args(), func(l *tradebook.Ledger, tx tradebook.Transaction) ([]tradebook.CloseEvent, error) {
		return l.ExecuteClose(tx)
	})
}

type rollCmd struct{}

func (*rollCmd) Name() string     { return "roll" }
func (*rollCmd) Synopsis() string { return "roll a position into a new one" }
func (*rollCmd) Usage() string {
	return `tbk roll SYMBOL:QTY:PRICE SYMBOL:QTY:PRICE [...]

  Executes a combined close-and-reopen. The closing legs must match
  currently held positions; the order chain of the closed position is
  carried over to the new one and its roll count incremented.
`
}

func (*rollCmd) SetFlags(_ *flag.FlagSet) {}

func (c *rollCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runTrade(f.Args(), func(l *tradebook.Ledger, tx tradebook.Transaction) ([]tradebook.CloseEvent, error) {
		return l.ExecuteRoll(tx)
	})
}

// runTrade shares the parse, execute and report cycle of the trading commands.
func runTrade(args []string, exec func(*tradebook.Ledger, tradebook.Transaction) ([]tradebook.CloseEvent, error)) subcommands.ExitStatus {
	legs, err := parseLegs(args)
	if err != nil {
		return fail(err)
	}
	tx, err := tradebook.NewTransaction(time.Now(), legs...)
	if err != nil {
		return fail(err)
	}
	ledger, err := OpenLedger()
	if err != nil {
		return fail(err)
	}
	events, err := exec(ledger, tx)
	if err != nil {
		return fail(err)
	}
	if len(events) > 0 {
		printMarkdown(renderer.CloseEvents(events))
	}
	fmt.Printf("Cash balance: %s\n", ledger.CashBalance())
	return subcommands.ExitSuccess
}
