// Package renderer turns ledger state into markdown reports for the CLI to
// display.
package renderer

import (
	"fmt"
	"strings"
	"time"

	"github.com/etnz/tradebook"
)

const timestampFormat = "2006-01-02 15:04"

// Holdings renders the current portfolio as a markdown report.
func Holdings(s tradebook.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio\n\n")
	fmt.Fprintf(&b, "Cash Balance: %s\n\n", s.Cash)
	if len(s.Holdings) == 0 {
		b.WriteString("No holdings.\n")
		return b.String()
	}
	b.WriteString("| Symbol | Type | Quantity | Price | Avg Open | Expires | Strike | Chain | Rolls |\n")
	b.WriteString("|---|---|--:|--:|--:|---|--:|--:|--:|\n")
	for _, h := range s.Holdings {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %d | %d |\n",
			h.Symbol, h.Type, h.Quantity, h.Price, h.AverageOpenPrice,
			expiry(h), strike(h), h.ChainID, h.RollCount)
	}
	return b.String()
}

func expiry(a tradebook.Asset) string {
	if a.ExpiresAt.IsZero() {
		return "-"
	}
	return a.ExpiresAt.Format("2006-01-02")
}

func strike(a tradebook.Asset) string {
	if a.Strike.IsZero() {
		return "-"
	}
	return a.Strike.String()
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(timestampFormat)
}
