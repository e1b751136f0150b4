package tradebook

import (
	"path/filepath"
	"testing"
	"time"
)

func TestJournal_AppendAndReplay(t *testing.T) {
	j := OpenJournal(filepath.Join(t.TempDir(), "log.jsonl"), "USD")

	open := leg(t, "SPY   250411C00440000", -1, 2.50).stampedAt(time.Now(), 7, 0)
	closeLeg := leg(t, "SPY   250411C00440000", 1, 1.00).stampedAt(time.Now(), 7, 1)
	for _, l := range []Asset{open, closeLeg} {
		if err := j.Append(Transaction{Legs: []Asset{l}}); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
	}

	legs, err := j.Legs()
	if err != nil {
		t.Fatalf("Legs() failed: %v", err)
	}
	if len(legs) != 2 {
		t.Fatalf("got %d legs, want 2", len(legs))
	}
	got := legs[0]
	if got.Symbol != open.Symbol || got.ChainID != 7 || got.RollCount != 0 {
		t.Errorf("first leg = %+v, want symbol %s chain 7 roll 0", got, open.Symbol)
	}
	if !got.Quantity.Equal(Q(-1)) {
		t.Errorf("Quantity = %s, want -1", got.Quantity)
	}
	if !got.Price.Equal(M(2.50, "USD")) {
		t.Errorf("Price = %s, want $2.50", got.Price)
	}
	if !got.Strike.Equal(Q(440)) {
		t.Errorf("Strike = %s, want 440", got.Strike)
	}
	if got.Type != Call {
		t.Errorf("Type = %v, want Call", got.Type)
	}
	if legs[1].RollCount != 1 {
		t.Errorf("second leg roll count = %d, want 1", legs[1].RollCount)
	}
}

func TestJournal_MissingFileIsEmptyHistory(t *testing.T) {
	j := OpenJournal(filepath.Join(t.TempDir(), "absent.jsonl"), "USD")
	legs, err := j.Legs()
	if err != nil {
		t.Fatalf("Legs() failed: %v", err)
	}
	if len(legs) != 0 {
		t.Errorf("got %d legs, want none", len(legs))
	}
	max, err := j.MaxChainID()
	if err != nil || max != 0 {
		t.Errorf("MaxChainID() = (%d, %v), want (0, nil)", max, err)
	}
}

func TestJournal_MaxChainID(t *testing.T) {
	j := OpenJournal(filepath.Join(t.TempDir(), "log.jsonl"), "USD")
	for _, id := range []int64{3, 9, 5} {
		l := leg(t, "AAPL", 1, 10).stampedAt(time.Now(), id, 0)
		if err := j.Append(Transaction{Legs: []Asset{l}}); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
	}
	max, err := j.MaxChainID()
	if err != nil {
		t.Fatalf("MaxChainID() failed: %v", err)
	}
	if max != 9 {
		t.Errorf("MaxChainID() = %d, want 9", max)
	}
}

func TestJournal_Clear(t *testing.T) {
	j := OpenJournal(filepath.Join(t.TempDir(), "log.jsonl"), "USD")
	l := leg(t, "AAPL", 1, 10).stampedAt(time.Now(), 1, 0)
	if err := j.Append(Transaction{Legs: []Asset{l}}); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
	if err := j.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	legs, err := j.Legs()
	if err != nil || len(legs) != 0 {
		t.Errorf("after Clear(), Legs() = (%d legs, %v), want empty", len(legs), err)
	}
	// Clearing an already-missing journal is not an error.
	if err := j.Clear(); err != nil {
		t.Errorf("second Clear() failed: %v", err)
	}
}
