package cmd

import (
	"testing"

	"github.com/etnz/tradebook"
)

func TestParseLegs(t *testing.T) {
	legs, err := parseLegs([]string{"AAPL:10:150.25", "SPY   250411C00440000:-1:2.50"})
	if err != nil {
		t.Fatalf("parseLegs() failed: %v", err)
	}
	if len(legs) != 2 {
		t.Fatalf("got %d legs, want 2", len(legs))
	}
	if legs[0].Symbol != "AAPL" || !legs[0].Quantity.Equal(tradebook.Q(10)) {
		t.Errorf("first leg = %+v, want AAPL x 10", legs[0])
	}
	if legs[1].Type != tradebook.Call {
		t.Errorf("second leg type = %v, want Call", legs[1].Type)
	}
	if !legs[1].Quantity.Equal(tradebook.Q(-1)) {
		t.Errorf("second leg quantity = %s, want -1", legs[1].Quantity)
	}
}

func TestParseLegs_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"missing price", []string{"AAPL:10"}},
		{"bad quantity", []string{"AAPL:ten:150"}},
		{"bad price", []string{"AAPL:10:cheap"}},
		{"zero quantity", []string{"AAPL:0:150"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseLegs(tc.args); err == nil {
				t.Errorf("parseLegs(%v) accepted invalid input", tc.args)
			}
		})
	}
}

func TestParseQuotes(t *testing.T) {
	quotes, err := parseQuotes([]string{"AAPL=160.50", "SPY   250411C00440000=2.80"})
	if err != nil {
		t.Fatalf("parseQuotes() failed: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("got %d quotes, want 2", len(quotes))
	}
	if _, ok := quotes["SPY   250411C00440000"]; !ok {
		t.Error("option symbol quote missing")
	}
	if _, err := parseQuotes([]string{"AAPL"}); err == nil {
		t.Error("parseQuotes accepted a quote without a price")
	}
}
