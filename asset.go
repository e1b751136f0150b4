package tradebook

import (
	"encoding/json"
	"fmt"
	"time"
)

// OrderType identifies how a leg affects a position.
type OrderType string

const (
	BuyToOpen   OrderType = "bto"
	SellToOpen  OrderType = "sto"
	BuyToClose  OrderType = "btc"
	SellToClose OrderType = "stc"
)

// IsClose reports whether the order type denotes a closing leg.
func (o OrderType) IsClose() bool { return o == BuyToClose || o == SellToClose }

func (o OrderType) String() string {
	switch o {
	case BuyToOpen:
		return "Buy to Open"
	case SellToOpen:
		return "Sell to Open"
	case BuyToClose:
		return "Buy to Close"
	case SellToClose:
		return "Sell to Close"
	default:
		return string(o)
	}
}

// Asset is one quantity of one instrument: a standing holding in the
// portfolio, or a single leg within a transaction. Both use the same shape.
//
// The attribute set is fixed. Broker-specific extras do not belong here;
// they stay in the broker adapter.
type Asset struct {
	Symbol           string
	Quantity         Quantity // signed: positive long, negative short
	Price            Money    // execution price (leg) or last recorded price (holding)
	AverageOpenPrice Money    // weighted-average cost basis, meaningful while Quantity != 0
	Type             AssetType
	Underlying       string
	Multiplier       Quantity
	ExpiresAt        time.Time // options only
	DaysToExpiration int       // options only, relative to the leg timestamp
	Strike           Quantity  // options only
	OrderType        OrderType
	ChainID          int64
	RollCount        int
	Timestamp        time.Time
}

// NewLeg builds a transaction leg for the given symbol, deriving the
// instrument attributes from the symbol itself. The average open price
// defaults to the execution price; the order type is left empty so the
// reconciliation engine can infer it against the current holdings.
func NewLeg(symbol string, quantity Quantity, price Money) (Asset, error) {
	ins, err := ParseSymbol(symbol)
	if err != nil {
		return Asset{}, err
	}
	if quantity.IsZero() {
		return Asset{}, fmt.Errorf("%w: %s", ErrZeroQuantity, symbol)
	}
	return Asset{
		Symbol:           symbol,
		Quantity:         quantity,
		Price:            price,
		AverageOpenPrice: price,
		Type:             ins.Type,
		Underlying:       ins.Underlying,
		Multiplier:       ins.Multiplier,
		ExpiresAt:        ins.ExpiresAt,
		Strike:           ins.Strike,
	}, nil
}

// IsCash reports whether the asset is the cash pseudo-asset. Cash is exempt
// from chain assignment and never enters the holding set.
func (a Asset) IsCash() bool { return a.Type == Cash }

// IsOption reports whether the asset is an option contract.
func (a Asset) IsOption() bool { return a.Type.IsOption() }

// Cost returns the signed notional of the leg: quantity x price x multiplier.
// Positive is a debit, negative a credit.
func (a Asset) Cost() Money {
	return a.Price.Mul(a.Quantity).Mul(a.Multiplier)
}

// stampedAt returns a copy with timestamp, chain id and roll count set, and
// the days-to-expiration recomputed relative to the stamp time.
func (a Asset) stampedAt(at time.Time, chainid int64, rollCount int) Asset {
	a.Timestamp = at
	a.ChainID = chainid
	a.RollCount = rollCount
	if !a.ExpiresAt.IsZero() {
		a.DaysToExpiration = int(a.ExpiresAt.Sub(at).Hours() / 24)
	}
	return a
}

// MarshalJSON implements the json.Marshaler interface for Asset. Date fields
// are serialized as RFC 3339 strings; option-only fields are omitted for
// equities and cash. Prices serialize as bare decimals: the currency is a
// property of the ledger, not of every row.
func (a Asset) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", a.Symbol)
	w.Append("quantity", a.Quantity)
	w.Append("price", a.Price.value)
	w.Append("average_open_price", a.AverageOpenPrice.value)
	w.Append("asset_type", string(a.Type))
	w.Append("underlying_symbol", a.Underlying)
	w.Append("multiplier", a.Multiplier)
	if !a.ExpiresAt.IsZero() {
		w.Append("expires_at", a.ExpiresAt.Format(time.RFC3339))
		w.Append("days_to_expiration", a.DaysToExpiration)
	}
	if !a.Strike.IsZero() {
		w.Append("strike_price", a.Strike)
	}
	w.Optional("order_type", string(a.OrderType))
	w.Append("chainid", a.ChainID)
	w.Append("roll_count", a.RollCount)
	if !a.Timestamp.IsZero() {
		w.Append("timestamp", a.Timestamp.Format(time.RFC3339))
	}
	return w.MarshalJSON()
}

// assetRow is the decoding counterpart of Asset.MarshalJSON.
type assetRow struct {
	Symbol           string    `json:"symbol"`
	Quantity         Quantity  `json:"quantity"`
	Price            Quantity  `json:"price"`
	AverageOpenPrice Quantity  `json:"average_open_price"`
	Type             string    `json:"asset_type"`
	Underlying       string    `json:"underlying_symbol"`
	Multiplier       Quantity  `json:"multiplier"`
	ExpiresAt        string    `json:"expires_at"`
	DaysToExpiration int       `json:"days_to_expiration"`
	Strike           Quantity  `json:"strike_price"`
	OrderType        OrderType `json:"order_type"`
	ChainID          int64     `json:"chainid"`
	RollCount        int       `json:"roll_count"`
	Timestamp        string    `json:"timestamp"`
}

// decodeAsset decodes one serialized asset row, stamping prices with the
// ledger currency.
func decodeAsset(data []byte, currency string) (Asset, error) {
	var row assetRow
	if err := json.Unmarshal(data, &row); err != nil {
		return Asset{}, err
	}
	a := Asset{
		Symbol:           row.Symbol,
		Quantity:         row.Quantity,
		Price:            M(row.Price.value, currency),
		AverageOpenPrice: M(row.AverageOpenPrice.value, currency),
		Type:             AssetType(row.Type),
		Underlying:       row.Underlying,
		Multiplier:       row.Multiplier,
		DaysToExpiration: row.DaysToExpiration,
		Strike:           row.Strike,
		OrderType:        row.OrderType,
		ChainID:          row.ChainID,
		RollCount:        row.RollCount,
	}
	var err error
	if row.ExpiresAt != "" {
		if a.ExpiresAt, err = time.Parse(time.RFC3339, row.ExpiresAt); err != nil {
			return Asset{}, fmt.Errorf("asset %s: invalid expires_at: %w", row.Symbol, err)
		}
	}
	if row.Timestamp != "" {
		if a.Timestamp, err = time.Parse(time.RFC3339, row.Timestamp); err != nil {
			return Asset{}, fmt.Errorf("asset %s: invalid timestamp: %w", row.Symbol, err)
		}
	}
	return a, nil
}
