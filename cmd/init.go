package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/etnz/tradebook"
)

type initCmd struct {
	cash string
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "start a brand-new portfolio" }
func (*initCmd) Usage() string {
	return `tbk init [-cash <amount>]

  Removes the current snapshot and transaction log and starts an empty
  portfolio, optionally seeded with an initial cash deposit.
`
}

func (p *initCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.cash, "cash", "", "Initial cash deposit.")
}

func (p *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := os.Remove(*snapshotFile); err != nil && !os.IsNotExist(err) {
		return fail(err)
	}
	if err := tradebook.OpenJournal(*journalFile, *defaultCurrency).Clear(); err != nil {
		return fail(err)
	}

	ledger, err := OpenLedger()
	if err != nil {
		return fail(err)
	}
	if p.cash != "" {
		amount, err := decimal.NewFromString(p.cash)
		if err != nil {
			return fail(fmt.Errorf("invalid cash amount %q: %w", p.cash, err))
		}
		if err := ledger.Deposit(tradebook.M(amount, *defaultCurrency), time.Now()); err != nil {
			return fail(err)
		}
	}
	fmt.Printf("New portfolio. Cash balance: %s\n", ledger.CashBalance())
	return subcommands.ExitSuccess
}
