package tradebook

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
)

// CashSymbol is the reserved symbol for the cash pseudo-asset.
const CashSymbol = "_CASH"

// AssetType classifies an instrument.
type AssetType string

const (
	Equity AssetType = "S"
	Call   AssetType = "C"
	Put    AssetType = "P"
	Cash   AssetType = "M"
)

// IsOption reports whether the type is an option class.
func (t AssetType) IsOption() bool { return t == Call || t == Put }

func (t AssetType) String() string {
	switch t {
	case Equity:
		return "equity"
	case Call:
		return "call"
	case Put:
		return "put"
	case Cash:
		return "cash"
	default:
		return string(t)
	}
}

// An OCC option symbol is a fixed-width 21-character string:
// 6-char space-padded underlying, 6-digit YYMMDD expiration,
// one class character (C or P), and an 8-digit strike scaled by 1000.
//
//	"SPY   250411C00440000"
const occSymbolLength = 6 + 6 + 1 + 8

// expiryCutoff is the intraday time options stop trading, by market-close
// convention, applied to every parsed expiration date.
const expiryCutoff = "20:15:00"

// Instrument holds the attributes derived from an instrument symbol alone.
type Instrument struct {
	Symbol     string
	Underlying string
	Type       AssetType
	ExpiresAt  time.Time // zero for non-options and for unparseable dates
	Strike     Quantity  // zero for non-options
	Multiplier Quantity  // 100 for options, 1 otherwise
}

// ParseSymbol derives structured attributes from an instrument symbol,
// deterministically and without any stateful lookup.
//
// Symbols of 12 characters or fewer are equities (or the cash sentinel).
// Longer symbols must be well-formed OCC option symbols; anything else is
// rejected with ErrMalformedSymbol. A digits-only expiration field that is
// not a valid calendar date is recoverable: the instrument parses with no
// expiration and a warning is logged.
func ParseSymbol(symbol string) (Instrument, error) {
	if len(symbol) <= 12 {
		t := Equity
		if symbol == CashSymbol {
			t = Cash
		}
		return Instrument{
			Symbol:     symbol,
			Underlying: symbol,
			Type:       t,
			Multiplier: Q(1),
		}, nil
	}

	if len(symbol) != occSymbolLength {
		return Instrument{}, fmt.Errorf("%w: %q has length %d, want %d", ErrMalformedSymbol, symbol, len(symbol), occSymbolLength)
	}

	underlying := strings.TrimRight(symbol[:6], " ")
	if underlying == "" {
		return Instrument{}, fmt.Errorf("%w: %q has an empty underlying field", ErrMalformedSymbol, symbol)
	}

	class := AssetType(symbol[12])
	if class != Call && class != Put {
		return Instrument{}, fmt.Errorf("%w: %q has class %q, want C or P", ErrMalformedSymbol, symbol, symbol[12:13])
	}

	dateField, strikeField := symbol[6:12], symbol[13:21]
	if !digits(dateField) || !digits(strikeField) {
		return Instrument{}, fmt.Errorf("%w: %q has non-numeric date or strike field", ErrMalformedSymbol, symbol)
	}

	// Strike is zero-padded and scaled by 1000: 00440000 is 440.
	millis, err := strconv.ParseInt(strikeField, 10, 64)
	if err != nil {
		return Instrument{}, fmt.Errorf("%w: %q strike: %v", ErrMalformedSymbol, symbol, err)
	}
	strike := Q(millis).Div(Q(1000))

	// A numeric but impossible calendar date is recoverable: the option
	// simply has no known expiration.
	var expiresAt time.Time
	expiresAt, err = time.Parse("20060102 15:04:05", "20"+dateField+" "+expiryCutoff)
	if err != nil {
		log.Printf("warning: invalid expiration date in symbol %q: %v", symbol, err)
		expiresAt = time.Time{}
	}

	return Instrument{
		Symbol:     symbol,
		Underlying: underlying,
		Type:       class,
		ExpiresAt:  expiresAt,
		Strike:     strike,
		Multiplier: Q(100),
	}, nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
