package tradebook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
)

// Snapshot is the serialized view of a ledger's current state: the cash
// balance and the holding set. It is overwritten wholesale after every
// successful transaction and reloaded at startup. It is a derived cache of
// the journal, not the source of truth.
type Snapshot struct {
	Currency string
	Cash     Money
	Holdings []Asset
}

// MarshalJSON implements the json.Marshaler interface for Snapshot.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("currency", s.Currency)
	w.Append("cash_balance", s.Cash.value)
	w.Append("holdings", s.Holdings)
	return w.MarshalJSON()
}

// EncodeSnapshot writes the snapshot as indented JSON.
func EncodeSnapshot(w io.Writer, s Snapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// DecodeSnapshot reads a snapshot, stamping monetary fields with the
// snapshot's own currency.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var raw struct {
		Currency string            `json:"currency"`
		Cash     decimal.Decimal   `json:"cash_balance"`
		Holdings []json.RawMessage `json:"holdings"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	s := Snapshot{
		Currency: raw.Currency,
		Cash:     M(raw.Cash, raw.Currency),
	}
	for _, line := range raw.Holdings {
		h, err := decodeAsset(line, raw.Currency)
		if err != nil {
			return Snapshot{}, fmt.Errorf("decoding snapshot holding: %w", err)
		}
		s.Holdings = append(s.Holdings, h)
	}
	return s, nil
}

// SnapshotStore abstracts where snapshots live. The ledger only asks to load
// the latest state and to replace it; the store owns the file mechanics.
type SnapshotStore interface {
	// Load returns the latest snapshot. A store with no snapshot yet
	// returns fs.ErrNotExist.
	Load() (Snapshot, error)
	// Save replaces the stored snapshot wholesale.
	Save(Snapshot) error
}

// FileSnapshotStore stores the snapshot as a single JSON file.
type FileSnapshotStore string

func (f FileSnapshotStore) Load() (Snapshot, error) {
	file, err := os.Open(string(f))
	if err != nil {
		return Snapshot{}, err
	}
	defer file.Close()
	return DecodeSnapshot(file)
}

func (f FileSnapshotStore) Save(s Snapshot) error {
	// Write-then-rename so a crash mid-write never leaves a torn snapshot.
	tmp := string(f) + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := EncodeSnapshot(file, s); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Clean(string(f)))
}
