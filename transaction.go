package tradebook

import (
	"fmt"
	"time"
)

// Transaction is an atomic group of one or more legs sharing one logical
// timestamp. Its chain id and roll count are resolved at execution time by
// the ledger, not supplied by the caller.
type Transaction struct {
	Timestamp time.Time
	Legs      []Asset
	ChainID   int64
	RollCount int
}

// NewTransaction builds a transaction from legs. It rejects empty
// transactions and zero-quantity legs; everything else is validated at
// execution time against the holding set.
func NewTransaction(at time.Time, legs ...Asset) (Transaction, error) {
	if len(legs) == 0 {
		return Transaction{}, ErrEmptyTransaction
	}
	for _, leg := range legs {
		if leg.Quantity.IsZero() {
			return Transaction{}, fmt.Errorf("%w: %s", ErrZeroQuantity, leg.Symbol)
		}
	}
	if at.IsZero() {
		at = time.Now()
	}
	return Transaction{Timestamp: at, Legs: legs}, nil
}

// Cost returns the net cost of the transaction over all legs:
// sum of quantity x price x multiplier. Positive is a net debit,
// negative a net credit.
//
// This is a cash-account view; it does not account for margin relief.
// See MarginRequirements for the buying-power estimate.
func (t Transaction) Cost() Money {
	var cost Money
	for _, leg := range t.Legs {
		cost = cost.Add(leg.Cost())
	}
	return cost
}

// stamp writes the resolved chain id and roll count onto the transaction and
// every leg, along with the shared timestamp.
func (t *Transaction) stamp(chainid int64, rollCount int) {
	t.ChainID = chainid
	t.RollCount = rollCount
	for i, leg := range t.Legs {
		t.Legs[i] = leg.stampedAt(t.Timestamp, chainid, rollCount)
	}
}
