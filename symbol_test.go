package tradebook

import (
	"errors"
	"testing"
	"time"
)

func TestParseSymbol(t *testing.T) {
	testCases := []struct {
		name           string
		symbol         string
		wantType       AssetType
		wantUnderlying string
		wantStrike     float64
		wantExpiresAt  time.Time
		wantMultiplier int
	}{
		{
			name:           "plain equity",
			symbol:         "AAPL",
			wantType:       Equity,
			wantUnderlying: "AAPL",
			wantMultiplier: 1,
		},
		{
			name:           "cash sentinel",
			symbol:         "_CASH",
			wantType:       Cash,
			wantUnderlying: "_CASH",
			wantMultiplier: 1,
		},
		{
			name:           "twelve characters is still an equity",
			symbol:         "ABCDEFGHIJKL",
			wantType:       Equity,
			wantUnderlying: "ABCDEFGHIJKL",
			wantMultiplier: 1,
		},
		{
			name:           "call option",
			symbol:         "SPY   250411C00440000",
			wantType:       Call,
			wantUnderlying: "SPY",
			wantStrike:     440,
			wantExpiresAt:  time.Date(2025, time.April, 11, 20, 15, 0, 0, time.UTC),
			wantMultiplier: 100,
		},
		{
			name:           "put option with fractional strike",
			symbol:         "XSP   241220P00037500",
			wantType:       Put,
			wantUnderlying: "XSP",
			wantStrike:     37.5,
			wantExpiresAt:  time.Date(2024, time.December, 20, 20, 15, 0, 0, time.UTC),
			wantMultiplier: 100,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ins, err := ParseSymbol(tc.symbol)
			if err != nil {
				t.Fatalf("ParseSymbol(%q) failed: %v", tc.symbol, err)
			}
			if ins.Type != tc.wantType {
				t.Errorf("Type = %v, want %v", ins.Type, tc.wantType)
			}
			if ins.Underlying != tc.wantUnderlying {
				t.Errorf("Underlying = %q, want %q", ins.Underlying, tc.wantUnderlying)
			}
			if !ins.Strike.Equal(Q(tc.wantStrike)) {
				t.Errorf("Strike = %s, want %v", ins.Strike, tc.wantStrike)
			}
			if !ins.ExpiresAt.Equal(tc.wantExpiresAt) {
				t.Errorf("ExpiresAt = %v, want %v", ins.ExpiresAt, tc.wantExpiresAt)
			}
			if !ins.Multiplier.Equal(Q(tc.wantMultiplier)) {
				t.Errorf("Multiplier = %s, want %d", ins.Multiplier, tc.wantMultiplier)
			}
		})
	}
}

func TestParseSymbol_Malformed(t *testing.T) {
	testCases := []struct {
		name   string
		symbol string
	}{
		{"wrong length", "SPY  250411C00440000"},
		{"bad class character", "SPY   250411X00440000"},
		{"non numeric strike", "SPY   250411C0044000X"},
		{"non numeric date", "SPY   25A411C00440000"},
		{"empty underlying", "      250411C00440000"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSymbol(tc.symbol)
			if !errors.Is(err, ErrMalformedSymbol) {
				t.Fatalf("ParseSymbol(%q) = %v, want ErrMalformedSymbol", tc.symbol, err)
			}
		})
	}
}

func TestParseSymbol_InvalidCalendarDateIsRecoverable(t *testing.T) {
	// A numeric but impossible date parses with no expiration.
	ins, err := ParseSymbol("SPY   259999C00440000")
	if err != nil {
		t.Fatalf("ParseSymbol() failed: %v", err)
	}
	if !ins.ExpiresAt.IsZero() {
		t.Errorf("ExpiresAt = %v, want zero", ins.ExpiresAt)
	}
	if ins.Type != Call {
		t.Errorf("Type = %v, want Call", ins.Type)
	}
	if !ins.Strike.Equal(Q(440)) {
		t.Errorf("Strike = %s, want 440", ins.Strike)
	}
}
