package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/etnz/tradebook"
)

type depositCmd struct{}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "add cash to the portfolio" }
func (*depositCmd) Usage() string {
	return `tbk deposit <amount>

  Adds external cash to the portfolio, recorded as a cash leg in the
  transaction log.
`
}

func (*depositCmd) SetFlags(_ *flag.FlagSet) {}

func (p *depositCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return fail(fmt.Errorf("deposit takes exactly one amount argument"))
	}
	amount, err := decimal.NewFromString(f.Arg(0))
	if err != nil {
		return fail(fmt.Errorf("invalid amount %q: %w", f.Arg(0), err))
	}
	ledger, err := OpenLedger()
	if err != nil {
		return fail(err)
	}
	if err := ledger.Deposit(tradebook.M(amount, *defaultCurrency), time.Now()); err != nil {
		return fail(err)
	}
	fmt.Printf("Cash balance: %s\n", ledger.CashBalance())
	return subcommands.ExitSuccess
}

type withdrawCmd struct{}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "remove cash from the portfolio" }
func (*withdrawCmd) Usage() string {
	return `tbk withdraw <amount>

  Removes cash from the portfolio. Withdrawing more than the cash balance
  is rejected.
`
}

func (*withdrawCmd) SetFlags(_ *flag.FlagSet) {}

func (p *withdrawCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return fail(fmt.Errorf("withdraw takes exactly one amount argument"))
	}
	amount, err := decimal.NewFromString(f.Arg(0))
	if err != nil {
		return fail(fmt.Errorf("invalid amount %q: %w", f.Arg(0), err))
	}
	ledger, err := OpenLedger()
	if err != nil {
		return fail(err)
	}
	if err := ledger.Withdraw(tradebook.M(amount, *defaultCurrency), time.Now()); err != nil {
		return fail(err)
	}
	fmt.Printf("Cash balance: %s\n", ledger.CashBalance())
	return subcommands.ExitSuccess
}
