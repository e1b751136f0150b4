// Package cmd implements the CLI application to manage a trading ledger.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/tradebook"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	register(c, &initCmd{}, "portfolio")
	register(c, &depositCmd{}, "portfolio")
	register(c, &withdrawCmd{}, "portfolio")
	register(c, &syncCmd{}, "portfolio")

	register(c, &openCmd{}, "transactions")
	register(c, &closeCmd{}, "transactions")
	register(c, &rollCmd{}, "transactions")

	register(c, &holdingsCmd{}, "reports")
	register(c, &chainsCmd{}, "reports")
	register(c, &historyCmd{}, "reports")
	register(c, &pnlCmd{}, "reports")
	register(c, &marginCmd{}, "reports")
	register(c, &assistCmd{}, "reports")
}

var names []string

func register(c *subcommands.Commander, cmd subcommands.Command, group string) {
	c.Register(cmd, group)
	names = append(names, cmd.Name())
}

// CommandNames returns the names of the registered subcommands, for shell
// completion and extension dispatch.
func CommandNames() []string { return names }

// IsCommand reports whether name is a registered subcommand.
func IsCommand(name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var snapshotFile = flag.String("snapshot-file", "portfolio.json", "Path to the portfolio snapshot file (JSON)")
var journalFile = flag.String("journal-file", "transaction_log.jsonl", "Path to the append-only transaction log (JSONL format)")
var defaultCurrency = flag.String("currency", "USD", "Reporting currency of the portfolio")
var simBroker = flag.Bool("sim-broker", false, "Fill orders through the simulated broker instead of at the requested price")

// OpenLedger is the central function to open the file-backed ledger.
func OpenLedger() (*tradebook.Ledger, error) {
	l, err := tradebook.Open(*snapshotFile, *journalFile, *defaultCurrency)
	if err != nil {
		return nil, err
	}
	if *simBroker {
		l.SetBroker(tradebook.SimBroker{})
	}
	return l, nil
}

// printMarkdown renders markdown to the terminal, falling back to the raw
// text when rendering is not possible.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// parseLegs parses leg arguments of the form SYMBOL:QTY:PRICE. Option
// symbols contain spaces, so the whole argument must be quoted:
//
//	"SPY   250411C00440000:-1:2.50"
func parseLegs(args []string) ([]tradebook.Asset, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one SYMBOL:QTY:PRICE leg is required")
	}
	legs := make([]tradebook.Asset, 0, len(args))
	for _, arg := range args {
		parts := strings.Split(arg, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid leg %q, want SYMBOL:QTY:PRICE", arg)
		}
		qty, err := decimal.NewFromString(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in leg %q: %w", arg, err)
		}
		price, err := decimal.NewFromString(parts[2])
		if err != nil {
			return nil, fmt.Errorf("invalid price in leg %q: %w", arg, err)
		}
		leg, err := tradebook.NewLeg(parts[0], tradebook.Q(qty), tradebook.M(price, *defaultCurrency))
		if err != nil {
			return nil, err
		}
		legs = append(legs, leg)
	}
	return legs, nil
}

// parseQuotes parses -q style quote arguments of the form SYMBOL=PRICE.
func parseQuotes(args []string) (map[string]tradebook.Money, error) {
	quotes := make(map[string]tradebook.Money, len(args))
	for _, arg := range args {
		sym, val, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid quote %q, want SYMBOL=PRICE", arg)
		}
		price, err := decimal.NewFromString(val)
		if err != nil {
			return nil, fmt.Errorf("invalid price in quote %q: %w", arg, err)
		}
		quotes[sym] = tradebook.M(price, *defaultCurrency)
	}
	return quotes, nil
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
