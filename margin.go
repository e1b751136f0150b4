package tradebook

import "log"

// Margin estimation: per-symbol buying-power reduction for the current
// holding set. This is a read-only consumer of ledger state; it never
// mutates holdings or cash. The rules are a simplified Reg-T style model:
//
//   - equities: 50% of market value, long or short
//   - long options: zero (the premium is already paid)
//   - covered calls and cash-secured puts: zero
//   - naked short options: 20% of the underlying value, plus the
//     out-of-the-money amount, minus the premium
//   - cash: zero

// MarginRequirements returns the buying-power reduction per symbol. A
// holding without a quote is skipped with a warning.
func (l *Ledger) MarginRequirements(quotes map[string]Money) map[string]Money {
	reqs := make(map[string]Money)
	for _, h := range l.Holdings() {
		price, ok := quotes[h.Symbol]
		if !ok {
			log.Printf("warning: no current price for %s, skipping margin calculation", h.Symbol)
			continue
		}
		switch {
		case h.Type == Equity:
			reqs[h.Symbol] = price.Mul(h.Quantity.Abs()).Mul(Q(0.5))
		case h.IsOption():
			reqs[h.Symbol] = l.optionMargin(h, price, quotes)
		default:
			reqs[h.Symbol] = M(0, l.currency)
		}
	}
	return reqs
}

// TotalMarginRequirement returns the portfolio-wide buying-power reduction.
func (l *Ledger) TotalMarginRequirement(quotes map[string]Money) Money {
	total := M(0, l.currency)
	for _, req := range l.MarginRequirements(quotes) {
		total = total.Add(req)
	}
	return total
}

func (l *Ledger) optionMargin(h Asset, price Money, quotes map[string]Money) Money {
	zero := M(0, l.currency)
	if h.Quantity.IsPositive() {
		return zero
	}
	contracts := h.Quantity.Abs()
	strike := M(h.Strike.value, l.currency)

	// A short call written against enough of the underlying is covered.
	if h.Type == Call {
		if u, ok := l.holdings[h.Underlying]; ok {
			if !u.Quantity.LessThan(contracts.Mul(h.Multiplier)) {
				return zero
			}
		}
	}
	// A short put fully backed by cash is secured.
	if h.Type == Put {
		if !l.cash.LessThan(strike.Mul(h.Multiplier).Mul(contracts)) {
			return zero
		}
	}

	underlyingPrice, ok := quotes[h.Underlying]
	if !ok {
		log.Printf("warning: no current price for underlying %s, using 0 in margin calculation", h.Underlying)
		underlyingPrice = zero
	}

	var outOfMoney Money
	if h.Type == Call {
		outOfMoney = strike.Sub(underlyingPrice)
	} else {
		outOfMoney = underlyingPrice.Sub(strike)
	}
	if outOfMoney.IsNegative() {
		outOfMoney = zero
	}

	exposure := contracts.Mul(h.Multiplier)
	margin := underlyingPrice.Mul(Q(0.2)).Mul(exposure).
		Add(outOfMoney.Mul(exposure)).
		Sub(price.Mul(exposure))
	if margin.IsNegative() {
		return zero
	}
	return margin
}
