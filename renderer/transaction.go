package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/tradebook"
)

// Legs renders executed legs as a markdown table, one row per leg, in the
// order they were journaled.
func Legs(title string, legs []tradebook.Asset) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(legs) == 0 {
		b.WriteString("No transactions.\n")
		return b.String()
	}
	writeLegTable(&b, legs)
	return b.String()
}

func writeLegTable(b *strings.Builder, legs []tradebook.Asset) {
	b.WriteString("| Timestamp | Symbol | Order | Quantity | Price | Avg Open | Chain | Rolls |\n")
	b.WriteString("|---|---|---|--:|--:|--:|--:|--:|\n")
	for _, leg := range legs {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %d | %d |\n",
			stamp(leg.Timestamp), leg.Symbol, leg.OrderType, leg.Quantity,
			leg.Price, leg.AverageOpenPrice, leg.ChainID, leg.RollCount)
	}
}

// CloseEvents renders the realized results of a transaction.
func CloseEvents(events []tradebook.CloseEvent) string {
	var b strings.Builder
	for _, e := range events {
		fmt.Fprintf(&b, "Closed %s x %s, realized %s\n", e.Quantity, e.Symbol, e.Realized.SignedString())
	}
	return b.String()
}
