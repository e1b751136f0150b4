package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/tradebook"
)

// Chains renders the order-chain history: one section per chain, its legs in
// journal order, and the holdings still open on it.
func Chains(chains []tradebook.Chain) string {
	var b strings.Builder
	b.WriteString("# Order Chains\n\n")
	if len(chains) == 0 {
		b.WriteString("No order chains.\n")
		return b.String()
	}
	for _, c := range chains {
		fmt.Fprintf(&b, "## Chain %d (%d rolls)\n\n", c.ID, c.RollCount)
		writeLegTable(&b, c.Legs)
		ConditionalBlock(&b, func(w io.Writer) bool {
			if len(c.Open) == 0 {
				return false
			}
			fmt.Fprintf(w, "\nStill open:")
			for _, h := range c.Open {
				fmt.Fprintf(w, " %s x %s", h.Symbol, h.Quantity)
			}
			fmt.Fprintln(w)
			return true
		})
		b.WriteString("\n")
	}
	return b.String()
}
