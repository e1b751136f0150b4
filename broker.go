package tradebook

import (
	"fmt"
	"log"
)

// Broker abstracts a brokerage execution adapter. The ledger treats any
// adapter failure as "transaction not executed": nothing has mutated,
// exactly like an insufficient-funds rejection.
type Broker interface {
	// Positions fetches the broker's view of current holdings, used to
	// initialize or reconcile the local holding set.
	Positions() ([]Asset, error)
	// Fill submits the proposed legs for execution and returns them
	// updated with actual fill prices.
	Fill(legs []Asset) ([]Asset, error)
}

// NullBroker is the no-op adapter: legs fill at their requested price and
// the broker holds no positions. It is the default for simulated portfolios.
type NullBroker struct{}

func (NullBroker) Positions() ([]Asset, error)        { return nil, nil }
func (NullBroker) Fill(legs []Asset) ([]Asset, error) { return legs, nil }

// SimBroker is a toy execution adapter for exercising the brokerage code
// path: every leg fills at a fixed fraction of the requested price.
type SimBroker struct {
	// FillRatio scales the requested price into the fill price.
	// Zero means 0.98, a 2% improvement.
	FillRatio float64
}

func (b SimBroker) Positions() ([]Asset, error) { return nil, nil }

func (b SimBroker) Fill(legs []Asset) ([]Asset, error) {
	ratio := b.FillRatio
	if ratio == 0 {
		ratio = 0.98
	}
	filled := make([]Asset, len(legs))
	for i, leg := range legs {
		if leg.Price.IsNegative() {
			return nil, fmt.Errorf("%w: negative price for %s", ErrBrokerRejected, leg.Symbol)
		}
		leg.Price = leg.Price.Mul(Q(ratio))
		log.Printf("sim broker: %s %s %s x %s", leg.Symbol, leg.OrderType, leg.Price, leg.Quantity)
		filled[i] = leg
	}
	return filled, nil
}
