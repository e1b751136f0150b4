// Package tradebook provides the core of a personal trading ledger: it tracks
// a simulated (or broker-mirrored) portfolio of cash, equities, and options,
// applies trades as atomic multi-leg transactions, and derives running cost
// basis, realized/unrealized PnL, and order chains (the lineage of a position
// across open, roll, and close events).
//
// The core functionalities include:
//   - Instrument Parsing: decoding OCC-style option symbols into underlying,
//     expiration, strike, and class without any stateful lookup.
//   - Position Reconciliation: merging transaction legs into the holding set
//     with signed quantities and weighted-average cost, all-or-nothing.
//   - Order Chains: allocating and propagating chain identifiers and roll
//     counters so a position's history can be reconstructed across rolls.
//   - Data Persistence: a JSON snapshot of the current state (a derived
//     cache) and an append-only JSONL journal of every leg ever executed
//     (the source of truth).
//
// This package serves as the foundational logic for the `tbk` command-line
// tool. It is single-writer by design: a Ledger instance owns its holdings
// and cash balance exclusively, and callers embedding it in a concurrent
// host must serialize calls to Execute.
package tradebook
