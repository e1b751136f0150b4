package tradebook

import (
	"fmt"
	"maps"
)

// CloseEvent reports the realized result of a leg reducing or flattening an
// existing holding: current value minus cost basis on the closed quantity.
// Realized PnL is observable here and only here; it is never stored back
// into the holding set.
type CloseEvent struct {
	Symbol   string
	Quantity Quantity // closed quantity, always positive
	Realized Money
}

// inferOrderType applies the decision table for legs without an explicit
// order type:
//
//	holding  leg   inferred
//	none     >0    buy-to-open
//	none     <0    sell-to-open
//	short    >0    buy-to-close
//	short    <0    sell-to-open  (adding to short)
//	long     <0    sell-to-close
//	long     >0    buy-to-open   (adding to long)
func inferOrderType(holding *Asset, leg Asset) OrderType {
	if holding == nil {
		if leg.Quantity.IsNegative() {
			return SellToOpen
		}
		return BuyToOpen
	}
	if holding.Quantity.IsNegative() {
		if leg.Quantity.IsPositive() {
			return BuyToClose
		}
		return SellToOpen
	}
	if leg.Quantity.IsNegative() {
		return SellToClose
	}
	return BuyToOpen
}

// reconcile stages a transaction's legs onto a copy of the holding set and
// returns the resulting set, the legs with inferred order types filled in,
// and the close events observed along the way.
//
// It never touches the input map: on any invalid leg the whole transaction
// fails and the caller keeps its state untouched.
func reconcile(holdings map[string]Asset, legs []Asset) (map[string]Asset, []Asset, []CloseEvent, error) {
	next := maps.Clone(holdings)
	resolved := make([]Asset, 0, len(legs))
	var events []CloseEvent

	for _, leg := range legs {
		if leg.IsCash() {
			resolved = append(resolved, leg)
			continue
		}

		var existing *Asset
		if h, ok := next[leg.Symbol]; ok {
			existing = &h
		}
		if leg.OrderType == "" {
			leg.OrderType = inferOrderType(existing, leg)
		}

		if existing == nil {
			if leg.OrderType.IsClose() {
				return nil, nil, nil, fmt.Errorf("%w: %s leg for %s", ErrNoHoldingToClose, leg.OrderType, leg.Symbol)
			}
			// Fresh position: cost basis is the execution price.
			leg.AverageOpenPrice = leg.Price
			next[leg.Symbol] = leg
			resolved = append(resolved, leg)
			continue
		}

		// The leg reduces the holding when the signs oppose; the reduced
		// quantity realizes PnL against the weighted-average cost basis.
		if existing.Quantity.IsPositive() != leg.Quantity.IsPositive() {
			closed := minQuantity(existing.Quantity.Abs(), leg.Quantity.Abs())
			sign := Q(1)
			if existing.Quantity.IsNegative() {
				sign = Q(-1)
			}
			events = append(events, CloseEvent{
				Symbol:   leg.Symbol,
				Quantity: closed,
				Realized: leg.Price.Sub(existing.AverageOpenPrice).Mul(closed).Mul(sign).Mul(leg.Multiplier),
			})
		}

		total := existing.Quantity.Add(leg.Quantity)
		if total.IsZero() {
			// Flat positions do not exist: remove immediately. A flat
			// position has no meaningful average cost, so none is kept.
			delete(next, leg.Symbol)
			resolved = append(resolved, leg)
			continue
		}

		merged := leg
		merged.Quantity = total
		merged.AverageOpenPrice = existing.AverageOpenPrice.Mul(existing.Quantity).
			Add(leg.Price.Mul(leg.Quantity)).
			Div(total)
		next[leg.Symbol] = merged
		resolved = append(resolved, leg)
	}

	return next, resolved, events, nil
}

func minQuantity(a, b Quantity) Quantity {
	if a.LessThan(b) {
		return a
	}
	return b
}
