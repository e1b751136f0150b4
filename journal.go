package tradebook

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Journal is the append-only transaction log: one JSONL line per executed
// leg, carrying the full asset attribute set plus timestamp, chain id and
// roll count. The journal is the durable audit trail and the source of
// truth; the snapshot is a derived cache.
type Journal struct {
	path     string
	currency string
}

// OpenJournal returns a journal backed by the given file. The file is
// created lazily on first append.
func OpenJournal(path, currency string) *Journal {
	return &Journal{path: path, currency: currency}
}

// Append writes every leg of the transaction as one JSONL line each. The
// write is flushed before returning.
func (j *Journal) Append(tx Transaction) error {
	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening journal %q: %w", j.path, err)
	}
	defer f.Close()
	if err := EncodeLegs(f, tx.Legs...); err != nil {
		return fmt.Errorf("appending to journal %q: %w", j.path, err)
	}
	return nil
}

// EncodeLegs writes legs to w in the journal's JSONL format.
func EncodeLegs(w io.Writer, legs ...Asset) error {
	for _, leg := range legs {
		line, err := leg.MarshalJSON()
		if err != nil {
			return err
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Legs replays the journal and returns every leg ever executed, in append
// order. A missing journal file is an empty history, not an error.
func (j *Journal) Legs() ([]Asset, error) {
	f, err := os.Open(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %q: %w", j.path, err)
	}
	defer f.Close()
	return DecodeLegs(f, j.currency)
}

// DecodeLegs reads legs from a JSONL stream, stamping prices with the given
// ledger currency.
func DecodeLegs(r io.Reader, currency string) ([]Asset, error) {
	var legs []Asset
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		leg, err := decodeAsset(line, currency)
		if err != nil {
			return nil, fmt.Errorf("journal line %q: %w", string(line), err)
		}
		legs = append(legs, leg)
	}
	return legs, scanner.Err()
}

// MaxChainID scans the journal for the maximum chain id ever issued. It is a
// one-time startup cost used to recover the chain counter after a restart.
func (j *Journal) MaxChainID() (int64, error) {
	legs, err := j.Legs()
	if err != nil {
		return 0, err
	}
	var max int64
	for _, leg := range legs {
		if leg.ChainID > max {
			max = leg.ChainID
		}
	}
	return max, nil
}

// Clear truncates the journal. Used when starting a brand-new portfolio.
func (j *Journal) Clear() error {
	err := os.Remove(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
