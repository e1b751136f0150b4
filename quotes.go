package tradebook

// QuoteProvider supplies current market prices. Entries may be absent for a
// symbol: an unknown price is a reporting gap, never a fatal error, and the
// consumers of quotes skip the affected symbol with a warning.
type QuoteProvider interface {
	Quotes(symbols []string) (map[string]Money, error)
}

// StaticQuotes is a fixed quote table. Useful for tests and for manual
// price entry from the command line.
type StaticQuotes map[string]Money

func (s StaticQuotes) Quotes(symbols []string) (map[string]Money, error) {
	quotes := make(map[string]Money, len(symbols))
	for _, sym := range symbols {
		if price, ok := s[sym]; ok {
			quotes[sym] = price
		}
	}
	return quotes, nil
}
