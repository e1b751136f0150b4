package tradebook

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by transaction validation. A transaction that
// fails with any of these has not mutated holdings or cash.
var (
	ErrMalformedSymbol   = errors.New("malformed option symbol")
	ErrEmptyTransaction  = errors.New("transaction has no legs")
	ErrZeroQuantity      = errors.New("leg quantity is zero")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNoHoldingToClose  = errors.New("no holding to close")
	ErrRollWithoutClose  = errors.New("roll has no closing leg")
	ErrBrokerRejected    = errors.New("broker rejected transaction")
)

// DurabilityError reports a failed journal or snapshot write that happened
// after a transaction was already applied in memory. The in-memory state is
// correct; the on-disk state is behind. It is deliberately distinct from the
// rejection sentinels above.
type DurabilityError struct {
	Op  string // "journal" or "snapshot"
	Err error
}

func (e *DurabilityError) Error() string {
	return fmt.Sprintf("durability failure (%s): %v; in-memory state already updated", e.Op, e.Err)
}

func (e *DurabilityError) Unwrap() error { return e.Err }
