package tradebook

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"slices"
	"strings"
	"time"
)

// Ledger owns a portfolio: the cash balance, the holding set, and the chain
// counter. It orchestrates a transaction end to end: cost computation, cash
// sufficiency, chain resolution, reconciliation, cash mutation, and
// durability through the journal and snapshot collaborators.
//
// A Ledger is a single-writer structure. It holds no locks; a concurrent
// host must serialize calls that execute transactions.
type Ledger struct {
	currency string
	cash     Money
	holdings map[string]Asset
	chains   chainCounter
	journal  *Journal
	store    SnapshotStore
	broker   Broker
}

// New creates an empty in-memory ledger with no durability collaborators.
func New(currency string) *Ledger {
	return &Ledger{
		currency: currency,
		cash:     M(0, currency),
		holdings: make(map[string]Asset),
	}
}

// Open loads a file-backed ledger: the snapshot provides the current state,
// and the journal scan recovers the chain counter. A missing snapshot or
// journal means a brand-new portfolio.
func Open(snapshotPath, journalPath, currency string) (*Ledger, error) {
	l := New(currency)
	l.store = FileSnapshotStore(snapshotPath)
	l.journal = OpenJournal(journalPath, currency)

	snap, err := l.store.Load()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("warning: snapshot %q does not exist, starting a new portfolio", snapshotPath)
	case err != nil:
		return nil, fmt.Errorf("loading snapshot: %w", err)
	default:
		if snap.Currency != "" {
			l.currency = snap.Currency
		}
		l.cash = snap.Cash
		for _, h := range snap.Holdings {
			l.holdings[h.Symbol] = h
			l.chains.observe(h.ChainID)
		}
	}

	// The journal is the source of truth for issued chain ids: a holding
	// set alone cannot see chains that are already closed.
	max, err := l.journal.MaxChainID()
	if err != nil {
		return nil, fmt.Errorf("recovering chain counter: %w", err)
	}
	l.chains.observe(max)
	return l, nil
}

// SetBroker installs an execution adapter. Without one, legs fill at their
// requested price (a purely simulated portfolio).
func (l *Ledger) SetBroker(b Broker) { l.broker = b }

// Currency returns the ledger's reporting currency.
func (l *Ledger) Currency() string { return l.currency }

// CashBalance returns the current cash balance.
func (l *Ledger) CashBalance() Money { return l.cash }

// Journal returns the ledger's journal, or nil for an in-memory ledger.
func (l *Ledger) Journal() *Journal { return l.journal }

// Holding returns the holding for a symbol, if any.
func (l *Ledger) Holding(symbol string) (Asset, bool) {
	h, ok := l.holdings[symbol]
	return h, ok
}

// Holdings returns the holding set sorted by symbol.
func (l *Ledger) Holdings() []Asset {
	hs := make([]Asset, 0, len(l.holdings))
	for _, h := range l.holdings {
		hs = append(hs, h)
	}
	slices.SortFunc(hs, func(a, b Asset) int { return strings.Compare(a.Symbol, b.Symbol) })
	return hs
}

// Execute applies one transaction atomically: either every leg is merged
// into the holding set and cash moves by the transaction cost, or nothing
// changes at all. It returns the close events realized by the transaction.
//
// A non-nil *DurabilityError means the transaction DID apply in memory but
// could not be fully persisted.
func (l *Ledger) Execute(tx Transaction) ([]CloseEvent, error) {
	return l.execute(tx, false)
}

// ExecuteOpen executes a transaction whose legs are all opening orders.
func (l *Ledger) ExecuteOpen(tx Transaction) ([]CloseEvent, error) {
	for i, leg := range tx.Legs {
		if leg.Quantity.IsNegative() {
			tx.Legs[i].OrderType = SellToOpen
		} else {
			tx.Legs[i].OrderType = BuyToOpen
		}
	}
	return l.execute(tx, false)
}

// ExecuteClose executes a transaction whose legs are all closing orders.
func (l *Ledger) ExecuteClose(tx Transaction) ([]CloseEvent, error) {
	for i, leg := range tx.Legs {
		if leg.Quantity.IsNegative() {
			tx.Legs[i].OrderType = SellToClose
		} else {
			tx.Legs[i].OrderType = BuyToClose
		}
	}
	return l.execute(tx, false)
}

// ExecuteRoll executes a mixed close-and-reopen transaction. Order types are
// inferred per leg against the current holdings; a roll that infers no
// closing leg is rejected. The rolled chain keeps its id and its roll count
// increments by one.
func (l *Ledger) ExecuteRoll(tx Transaction) ([]CloseEvent, error) {
	for i := range tx.Legs {
		tx.Legs[i].OrderType = ""
	}
	return l.execute(tx, true)
}

func (l *Ledger) execute(tx Transaction, mustClose bool) ([]CloseEvent, error) {
	if len(tx.Legs) == 0 {
		return nil, ErrEmptyTransaction
	}
	if tx.Timestamp.IsZero() {
		tx.Timestamp = time.Now()
	}

	if l.broker != nil {
		filled, err := l.broker.Fill(tx.Legs)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBrokerRejected, err)
		}
		tx.Legs = filled
	}

	cost := tx.Cost()
	if cost.IsPositive() && l.cash.LessThan(cost) {
		return nil, fmt.Errorf("%w: cost %s exceeds cash balance %s", ErrInsufficientFunds, cost, l.cash)
	}

	// Staging pass: validate every leg against the holding set before the
	// chain counter or any state moves.
	_, staged, _, err := reconcile(l.holdings, tx.Legs)
	if err != nil {
		return nil, err
	}
	if mustClose && !slices.ContainsFunc(staged, func(a Asset) bool { return a.OrderType.IsClose() }) {
		return nil, ErrRollWithoutClose
	}

	chainid, rollCount := resolveChain(&l.chains, l.holdings, staged)
	tx.stamp(chainid, rollCount)

	// The staging pass above accepted these exact legs, so this cannot fail.
	next, resolved, events, err := reconcile(l.holdings, tx.Legs)
	if err != nil {
		return nil, err
	}
	tx.Legs = resolved

	l.holdings = next
	l.cash = l.cash.Sub(cost)

	return events, l.persist(tx)
}

// Deposit adds external cash to the portfolio, recorded as a cash leg. Cash
// is exempt from chain assignment and never enters the holding set.
func (l *Ledger) Deposit(amount Money, at time.Time) error {
	if !amount.IsPositive() {
		return fmt.Errorf("deposit amount must be positive, got %s", amount)
	}
	return l.moveCash(amount, at)
}

// Withdraw removes cash from the portfolio. Withdrawing more than the cash
// balance is an insufficient-funds rejection.
func (l *Ledger) Withdraw(amount Money, at time.Time) error {
	if !amount.IsPositive() {
		return fmt.Errorf("withdrawal amount must be positive, got %s", amount)
	}
	if l.cash.LessThan(amount) {
		return fmt.Errorf("%w: withdrawal %s exceeds cash balance %s", ErrInsufficientFunds, amount, l.cash)
	}
	return l.moveCash(amount.Neg(), at)
}

func (l *Ledger) moveCash(amount Money, at time.Time) error {
	if at.IsZero() {
		at = time.Now()
	}
	leg := Asset{
		Symbol:           CashSymbol,
		Quantity:         Q(amount.value),
		Price:            M(1, l.currency),
		AverageOpenPrice: M(1, l.currency),
		Type:             Cash,
		Underlying:       CashSymbol,
		Multiplier:       Q(1),
		OrderType:        BuyToOpen,
	}
	if amount.IsNegative() {
		leg.OrderType = SellToClose
	}
	l.cash = l.cash.Add(amount)
	return l.persist(Transaction{Timestamp: at, Legs: []Asset{leg.stampedAt(at, 0, 0)}})
}

// persist appends the transaction to the journal and overwrites the
// snapshot. By the time it runs the in-memory mutation is already done, so
// any failure here is a durability concern, surfaced but never rolled back.
func (l *Ledger) persist(tx Transaction) error {
	if l.journal != nil {
		if err := l.journal.Append(tx); err != nil {
			return &DurabilityError{Op: "journal", Err: err}
		}
	}
	if l.store != nil {
		if err := l.store.Save(l.Snapshot()); err != nil {
			return &DurabilityError{Op: "snapshot", Err: err}
		}
	}
	return nil
}

// Snapshot captures the ledger's current state.
func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{Currency: l.currency, Cash: l.cash, Holdings: l.Holdings()}
}

// MarketValue returns the total portfolio value: cash plus the notional
// value of every holding at current prices. A holding without a quote is
// skipped with a warning; a price gap affects reporting, not correctness.
func (l *Ledger) MarketValue(quotes map[string]Money) Money {
	total := l.cash
	for _, h := range l.Holdings() {
		price, ok := quotes[h.Symbol]
		if !ok {
			log.Printf("warning: no current price for %s, skipping in market value", h.Symbol)
			continue
		}
		total = total.Add(price.Mul(h.Quantity).Mul(h.Multiplier))
	}
	return total
}

// UnrealizedPnL returns the paper gain over all holdings: quantity x
// (current price - average open price) x multiplier. Holdings without a
// quote are skipped with a warning.
func (l *Ledger) UnrealizedPnL(quotes map[string]Money) Money {
	total := M(0, l.currency)
	for _, h := range l.Holdings() {
		price, ok := quotes[h.Symbol]
		if !ok {
			log.Printf("warning: no current price for %s, skipping in PnL", h.Symbol)
			continue
		}
		total = total.Add(price.Sub(h.AverageOpenPrice).Mul(h.Quantity).Mul(h.Multiplier))
	}
	return total
}

// SyncBroker replaces the holding set with the broker's view of positions.
// Positions already known locally keep their chain lineage; a quantity
// disagreement is logged and the broker's quantity wins (best-effort merge,
// the broker is authoritative for quantities, the ledger for chains).
// Unknown positions start fresh chains.
func (l *Ledger) SyncBroker() error {
	if l.broker == nil {
		return errors.New("no broker configured")
	}
	positions, err := l.broker.Positions()
	if err != nil {
		return fmt.Errorf("fetching broker positions: %w", err)
	}

	next := make(map[string]Asset, len(positions))
	for _, p := range positions {
		if local, ok := l.holdings[p.Symbol]; ok {
			if !local.Quantity.Equal(p.Quantity) {
				log.Printf("warning: quantity mismatch for %s: ledger has %s, broker has %s; keeping broker's", p.Symbol, local.Quantity, p.Quantity)
			}
			p.ChainID = local.ChainID
			p.RollCount = local.RollCount
		} else {
			p.ChainID = l.chains.next()
		}
		next[p.Symbol] = p
	}
	for sym := range l.holdings {
		if _, ok := next[sym]; !ok {
			log.Printf("warning: %s held locally but absent from broker positions, dropping", sym)
		}
	}
	l.holdings = next

	if l.store != nil {
		if err := l.store.Save(l.Snapshot()); err != nil {
			return &DurabilityError{Op: "snapshot", Err: err}
		}
	}
	return nil
}
