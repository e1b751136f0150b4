package tradebook

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

// newTestLedger creates a funded in-memory ledger.
func newTestLedger(t *testing.T, cash float64) *Ledger {
	t.Helper()
	l := New("USD")
	if cash > 0 {
		if err := l.Deposit(M(cash, "USD"), time.Time{}); err != nil {
			t.Fatalf("Deposit() failed: %v", err)
		}
	}
	return l
}

func tx(t *testing.T, legs ...Asset) Transaction {
	t.Helper()
	transaction, err := NewTransaction(time.Now(), legs...)
	if err != nil {
		t.Fatalf("NewTransaction() failed: %v", err)
	}
	return transaction
}

func TestLedger_ExecuteOpenAndClose(t *testing.T) {
	l := newTestLedger(t, 2000)

	if _, err := l.ExecuteOpen(tx(t, leg(t, "AAPL", 10, 150))); err != nil {
		t.Fatalf("ExecuteOpen() failed: %v", err)
	}
	if !l.CashBalance().Equal(M(500, "USD")) {
		t.Errorf("cash after open = %s, want $500", l.CashBalance())
	}
	h, ok := l.Holding("AAPL")
	if !ok {
		t.Fatal("AAPL not held after open")
	}
	if h.ChainID != 1 || h.RollCount != 0 {
		t.Errorf("chain = (%d, %d), want (1, 0)", h.ChainID, h.RollCount)
	}

	events, err := l.ExecuteClose(tx(t, leg(t, "AAPL", -10, 160)))
	if err != nil {
		t.Fatalf("ExecuteClose() failed: %v", err)
	}
	if _, ok := l.Holding("AAPL"); ok {
		t.Error("AAPL still held after full close")
	}
	if len(events) != 1 || !events[0].Realized.Equal(M(100, "USD")) {
		t.Errorf("close events = %v, want one realizing $100", events)
	}
	if !l.CashBalance().Equal(M(2100, "USD")) {
		t.Errorf("cash after close = %s, want $2100", l.CashBalance())
	}
}

func TestLedger_InsufficientFundsLeavesStateUntouched(t *testing.T) {
	l := newTestLedger(t, 100)

	_, err := l.ExecuteOpen(tx(t, leg(t, "AAPL", 10, 15)))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("ExecuteOpen() = %v, want ErrInsufficientFunds", err)
	}
	if !l.CashBalance().Equal(M(100, "USD")) {
		t.Errorf("cash = %s, want untouched $100", l.CashBalance())
	}
	if len(l.Holdings()) != 0 {
		t.Errorf("holdings = %v, want none", l.Holdings())
	}
}

func TestLedger_CreditTransactionNeedsNoCash(t *testing.T) {
	// Selling a call brings cash in; a zero-cash ledger can do it.
	l := newTestLedger(t, 0)
	if _, err := l.ExecuteOpen(tx(t, leg(t, "SPY   250411C00440000", -1, 2.50))); err != nil {
		t.Fatalf("ExecuteOpen() failed: %v", err)
	}
	if !l.CashBalance().Equal(M(250, "USD")) {
		t.Errorf("cash = %s, want $250 credit", l.CashBalance())
	}
}

func TestLedger_CloseWithoutHoldingRejects(t *testing.T) {
	l := newTestLedger(t, 1000)
	_, err := l.ExecuteClose(tx(t, leg(t, "AAPL", -10, 15)))
	if !errors.Is(err, ErrNoHoldingToClose) {
		t.Fatalf("ExecuteClose() = %v, want ErrNoHoldingToClose", err)
	}
	if !l.CashBalance().Equal(M(1000, "USD")) {
		t.Errorf("cash = %s, want untouched $1000", l.CashBalance())
	}
}

func TestLedger_RollPreservesChain(t *testing.T) {
	l := newTestLedger(t, 0)
	if _, err := l.ExecuteOpen(tx(t, leg(t, "SPY   250411C00440000", -1, 2.50))); err != nil {
		t.Fatalf("ExecuteOpen() failed: %v", err)
	}

	// Buy back the April call, sell the May call, one transaction.
	events, err := l.ExecuteRoll(tx(t,
		leg(t, "SPY   250411C00440000", 1, 1.00),
		leg(t, "SPY   250516C00450000", -1, 3.00),
	))
	if err != nil {
		t.Fatalf("ExecuteRoll() failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d close events, want 1", len(events))
	}

	if _, ok := l.Holding("SPY   250411C00440000"); ok {
		t.Error("rolled-out position still held")
	}
	h, ok := l.Holding("SPY   250516C00450000")
	if !ok {
		t.Fatal("rolled-in position not held")
	}
	if h.ChainID != 1 {
		t.Errorf("ChainID = %d, want 1 (inherited)", h.ChainID)
	}
	if h.RollCount != 1 {
		t.Errorf("RollCount = %d, want 1", h.RollCount)
	}
	// 250 credit on open, 100 debit on buyback, 300 credit on new leg.
	if !l.CashBalance().Equal(M(450, "USD")) {
		t.Errorf("cash = %s, want $450", l.CashBalance())
	}
}

func TestLedger_RollWithoutCloseRejects(t *testing.T) {
	l := newTestLedger(t, 0)
	_, err := l.ExecuteRoll(tx(t, leg(t, "SPY   250411C00440000", -1, 2.50)))
	if !errors.Is(err, ErrRollWithoutClose) {
		t.Fatalf("ExecuteRoll() = %v, want ErrRollWithoutClose", err)
	}
	if len(l.Holdings()) != 0 {
		t.Error("rejected roll left holdings behind")
	}
	// The chain counter must not burn ids on rejected transactions.
	if _, err := l.ExecuteOpen(tx(t, leg(t, "AAPL", -1, 5))); err != nil {
		t.Fatalf("ExecuteOpen() failed: %v", err)
	}
	if h, _ := l.Holding("AAPL"); h.ChainID != 1 {
		t.Errorf("ChainID = %d, want 1", h.ChainID)
	}
}

func TestLedger_ReopenStartsFreshChain(t *testing.T) {
	l := newTestLedger(t, 10000)
	if _, err := l.ExecuteOpen(tx(t, leg(t, "AAPL", 10, 150))); err != nil {
		t.Fatalf("first ExecuteOpen() failed: %v", err)
	}
	if _, err := l.ExecuteClose(tx(t, leg(t, "AAPL", -10, 150))); err != nil {
		t.Fatalf("ExecuteClose() failed: %v", err)
	}
	if _, err := l.ExecuteOpen(tx(t, leg(t, "AAPL", 10, 150))); err != nil {
		t.Fatalf("second ExecuteOpen() failed: %v", err)
	}
	h, _ := l.Holding("AAPL")
	if h.ChainID != 2 || h.RollCount != 0 {
		t.Errorf("chain = (%d, %d), want fresh (2, 0)", h.ChainID, h.RollCount)
	}
}

func TestLedger_DepositWithdraw(t *testing.T) {
	l := New("USD")
	if err := l.Deposit(M(1000, "USD"), time.Time{}); err != nil {
		t.Fatalf("Deposit() failed: %v", err)
	}
	if err := l.Withdraw(M(300, "USD"), time.Time{}); err != nil {
		t.Fatalf("Withdraw() failed: %v", err)
	}
	if !l.CashBalance().Equal(M(700, "USD")) {
		t.Errorf("cash = %s, want $700", l.CashBalance())
	}

	err := l.Withdraw(M(701, "USD"), time.Time{})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Withdraw() = %v, want ErrInsufficientFunds", err)
	}
	if err := l.Deposit(M(-5, "USD"), time.Time{}); err == nil {
		t.Fatal("Deposit() accepted a negative amount")
	}
}

func TestLedger_MarketValueAndPnL(t *testing.T) {
	l := newTestLedger(t, 2000)
	if _, err := l.ExecuteOpen(tx(t, leg(t, "AAPL", 10, 150))); err != nil {
		t.Fatalf("ExecuteOpen() failed: %v", err)
	}
	if _, err := l.ExecuteOpen(tx(t, leg(t, "SPY   250411C00440000", -1, 2.50))); err != nil {
		t.Fatalf("ExecuteOpen() failed: %v", err)
	}

	quotes := map[string]Money{
		"AAPL":                  M(160, "USD"),
		"SPY   250411C00440000": M(2.00, "USD"),
	}
	// cash 750 + 10x160 + (-1)x2x100.
	if got := l.MarketValue(quotes); !got.Equal(M(2150, "USD")) {
		t.Errorf("MarketValue() = %s, want $2150", got)
	}
	// 10x(160-150) + (-1)x(2.00-2.50)x100.
	if got := l.UnrealizedPnL(quotes); !got.Equal(M(150, "USD")) {
		t.Errorf("UnrealizedPnL() = %s, want $150", got)
	}

	// A missing quote skips the position instead of failing.
	if got := l.MarketValue(map[string]Money{"AAPL": M(160, "USD")}); !got.Equal(M(2350, "USD")) {
		t.Errorf("MarketValue() with missing quote = %s, want $2350", got)
	}
}

func TestLedger_SimBrokerFillsBelowAsk(t *testing.T) {
	l := newTestLedger(t, 2000)
	l.SetBroker(SimBroker{FillRatio: 0.5})
	if _, err := l.ExecuteOpen(tx(t, leg(t, "AAPL", 10, 100))); err != nil {
		t.Fatalf("ExecuteOpen() failed: %v", err)
	}
	h, _ := l.Holding("AAPL")
	if !h.Price.Equal(M(50, "USD")) {
		t.Errorf("fill price = %s, want $50", h.Price)
	}
	if !l.CashBalance().Equal(M(1500, "USD")) {
		t.Errorf("cash = %s, want $1500", l.CashBalance())
	}
}

// failingStore always fails to save, to observe durability errors.
type failingStore struct{}

func (failingStore) Load() (Snapshot, error) { return Snapshot{}, fmt.Errorf("no snapshot") }
func (failingStore) Save(Snapshot) error     { return fmt.Errorf("disk full") }

func TestLedger_DurabilityErrorKeepsInMemoryState(t *testing.T) {
	l := newTestLedger(t, 2000)
	l.store = failingStore{}

	_, err := l.ExecuteOpen(tx(t, leg(t, "AAPL", 10, 150)))
	var derr *DurabilityError
	if !errors.As(err, &derr) {
		t.Fatalf("ExecuteOpen() = %v, want *DurabilityError", err)
	}
	// The transaction applied in memory; only persistence failed.
	if _, ok := l.Holding("AAPL"); !ok {
		t.Error("holding missing after durability failure")
	}
	if !l.CashBalance().Equal(M(500, "USD")) {
		t.Errorf("cash = %s, want $500", l.CashBalance())
	}
}

func TestLedger_OpenResumesFromFiles(t *testing.T) {
	dir := t.TempDir()
	snapshot := filepath.Join(dir, "portfolio.json")
	journal := filepath.Join(dir, "log.jsonl")

	l, err := Open(snapshot, journal, "USD")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := l.Deposit(M(5000, "USD"), time.Time{}); err != nil {
		t.Fatalf("Deposit() failed: %v", err)
	}
	if _, err := l.ExecuteOpen(tx(t, leg(t, "AAPL", 10, 150))); err != nil {
		t.Fatalf("ExecuteOpen() failed: %v", err)
	}
	if _, err := l.ExecuteClose(tx(t, leg(t, "AAPL", -10, 150))); err != nil {
		t.Fatalf("ExecuteClose() failed: %v", err)
	}

	// A fresh process over the same files sees the same state.
	reopened, err := Open(snapshot, journal, "USD")
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	if !reopened.CashBalance().Equal(l.CashBalance()) {
		t.Errorf("reopened cash = %s, want %s", reopened.CashBalance(), l.CashBalance())
	}
	if len(reopened.Holdings()) != 0 {
		t.Errorf("reopened holdings = %v, want none", reopened.Holdings())
	}

	// The chain counter resumes past ids only visible in the journal.
	if _, err := reopened.ExecuteOpen(tx(t, leg(t, "MSFT", 1, 10))); err != nil {
		t.Fatalf("ExecuteOpen() after reopen failed: %v", err)
	}
	h, _ := reopened.Holding("MSFT")
	if h.ChainID != 2 {
		t.Errorf("ChainID after reopen = %d, want 2", h.ChainID)
	}
}

// stubBroker serves a fixed position list.
type stubBroker struct{ positions []Asset }

func (b stubBroker) Positions() ([]Asset, error)      { return b.positions, nil }
func (stubBroker) Fill(legs []Asset) ([]Asset, error) { return legs, nil }

func TestLedger_SyncBroker(t *testing.T) {
	l := newTestLedger(t, 2000)
	if _, err := l.ExecuteOpen(tx(t, leg(t, "AAPL", 10, 150))); err != nil {
		t.Fatalf("ExecuteOpen() failed: %v", err)
	}
	if _, err := l.ExecuteOpen(tx(t, leg(t, "MSFT", 1, 10))); err != nil {
		t.Fatalf("ExecuteOpen() failed: %v", err)
	}

	// Broker disagrees on AAPL's quantity, has a new GOOG, and no MSFT.
	aapl := leg(t, "AAPL", 12, 150)
	goog := leg(t, "GOOG", 5, 100)
	l.SetBroker(stubBroker{positions: []Asset{aapl, goog}})

	if err := l.SyncBroker(); err != nil {
		t.Fatalf("SyncBroker() failed: %v", err)
	}

	h, ok := l.Holding("AAPL")
	if !ok || !h.Quantity.Equal(Q(12)) {
		t.Errorf("AAPL quantity = %s, want broker's 12", h.Quantity)
	}
	if h.ChainID != 1 {
		t.Errorf("AAPL ChainID = %d, want preserved 1", h.ChainID)
	}
	g, ok := l.Holding("GOOG")
	if !ok {
		t.Fatal("GOOG missing after sync")
	}
	if g.ChainID != 3 {
		t.Errorf("GOOG ChainID = %d, want fresh 3", g.ChainID)
	}
	if _, ok := l.Holding("MSFT"); ok {
		t.Error("MSFT still held though absent from broker")
	}
}
