package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/tradebook"
)

// Margin renders the per-symbol buying-power reductions. Holdings are
// passed to keep the row order stable.
func Margin(holdings []tradebook.Asset, reqs map[string]tradebook.Money, total tradebook.Money) string {
	var b strings.Builder
	b.WriteString("# Margin Requirements\n\n")
	if len(reqs) == 0 {
		b.WriteString("No margin requirements.\n")
		return b.String()
	}
	b.WriteString("| Symbol | Type | Quantity | Requirement |\n")
	b.WriteString("|---|---|--:|--:|\n")
	for _, h := range holdings {
		req, ok := reqs[h.Symbol]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", h.Symbol, h.Type, h.Quantity, req)
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", total)
	return b.String()
}
