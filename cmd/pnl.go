package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/tradebook"
	"github.com/google/subcommands"
)

// pnlCmd holds the flags for the 'pnl' subcommand.
type pnlCmd struct {
	fetch bool
}

func (*pnlCmd) Name() string     { return "pnl" }
func (*pnlCmd) Synopsis() string { return "display market value and unrealized profit" }
func (*pnlCmd) Usage() string {
	return `tbk pnl [-u] [SYMBOL=PRICE ...]

  Computes the portfolio market value and unrealized profit from the
  given quotes. Positions without a quote are skipped with a warning.

    tbk pnl AAPL=234.10 "SPY   250411C00440000=2.80"
`
}

func (c *pnlCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.fetch, "u", false, "fetch missing equity quotes from EODHD")
}

func (c *pnlCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	quotes, err := parseQuotes(f.Args())
	if err != nil {
		return fail(err)
	}
	ledger, err := OpenLedger()
	if err != nil {
		return fail(err)
	}
	if c.fetch {
		if err := fetchMissing(ledger, quotes); err != nil {
			return fail(err)
		}
	}
	fmt.Printf("Cash balance:     %s\n", ledger.CashBalance())
	fmt.Printf("Market value:     %s\n", ledger.MarketValue(quotes))
	fmt.Printf("Unrealized PnL:   %s\n", ledger.UnrealizedPnL(quotes).SignedString())
	return subcommands.ExitSuccess
}

// fetchMissing completes quotes with EODHD real-time prices for the held
// equities that have no quote yet.
func fetchMissing(ledger *tradebook.Ledger, quotes map[string]tradebook.Money) error {
	var missing []string
	for _, h := range ledger.Holdings() {
		if h.IsCash() || h.IsOption() {
			continue
		}
		if _, ok := quotes[h.Symbol]; !ok {
			missing = append(missing, h.Symbol)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	fetched, err := tradebook.NewEODHD(tradebook.EODHDAPIKey()).Quotes(missing)
	if err != nil {
		return err
	}
	for sym, price := range fetched {
		quotes[sym] = price
	}
	return nil
}
