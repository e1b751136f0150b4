package tradebook

import (
	"log"
	"slices"
)

// chainCounter allocates order-chain identifiers. It is owned by a single
// Ledger instance and recovered at startup from the journal's maximum issued
// id, so fresh chain ids are strictly increasing across restarts.
type chainCounter struct {
	last int64
}

// next allocates a fresh chain id, strictly greater than every id issued
// before it.
func (c *chainCounter) next() int64 {
	c.last++
	return c.last
}

// observe raises the counter floor to cover an id seen in the journal.
func (c *chainCounter) observe(id int64) {
	if id > c.last {
		c.last = id
	}
}

// resolveChain determines the chain id and roll count a transaction should
// carry, given the current holding set.
//
// The transaction inherits the chain of the first leg whose symbol matches an
// existing holding, with the holding's roll count incremented: touching a
// live position is a roll event on that position's chain. When no leg
// matches, the position is freshly opened and a new chain id is allocated
// with a roll count of zero.
//
// Legs matching holdings on different chains are ambiguous; the first match
// wins, deterministically, and a warning is logged. Cash legs are exempt
// from chain assignment.
func resolveChain(counter *chainCounter, holdings map[string]Asset, legs []Asset) (chainid int64, rollCount int) {
	matched := false
	for _, leg := range legs {
		if leg.IsCash() {
			continue
		}
		h, ok := holdings[leg.Symbol]
		if !ok {
			continue
		}
		if !matched {
			matched = true
			chainid = h.ChainID
			rollCount = h.RollCount + 1
			continue
		}
		if h.ChainID != chainid {
			log.Printf("warning: legs reference chains %d and %d in one transaction; keeping %d (first match wins)", chainid, h.ChainID, chainid)
		}
	}
	if matched {
		return chainid, rollCount
	}
	return counter.next(), 0
}

// Chain is a reconstructed order chain: every leg that ever carried one
// chain id, in journal order, plus the holdings still open on that chain.
// Chains are not stored; they are replayed from the journal.
type Chain struct {
	ID        int64
	RollCount int // highest roll count seen on the chain
	Legs      []Asset
	Open      []Asset
}

// Chains groups journal legs by chain id, attaching the still-open holdings
// to their chain. Cash legs carry no chain and are left out. The result is
// sorted by chain id.
func Chains(legs []Asset, holdings []Asset) []Chain {
	index := make(map[int64]*Chain)
	var order []int64
	for _, leg := range legs {
		if leg.IsCash() {
			continue
		}
		c, ok := index[leg.ChainID]
		if !ok {
			c = &Chain{ID: leg.ChainID}
			index[leg.ChainID] = c
			order = append(order, leg.ChainID)
		}
		c.Legs = append(c.Legs, leg)
		if leg.RollCount > c.RollCount {
			c.RollCount = leg.RollCount
		}
	}
	for _, h := range holdings {
		if c, ok := index[h.ChainID]; ok {
			c.Open = append(c.Open, h)
		}
	}
	slices.Sort(order)
	chains := make([]Chain, 0, len(order))
	for _, id := range order {
		chains = append(chains, *index[id])
	}
	return chains
}
