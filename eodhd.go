package tradebook

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// This file implements the EODHD quote provider.

const eodhdAPIKeyEnv = "EODHD_API_KEY"

var eodhdAPIFlag = flag.String("eodhd-api-key", "", "EODHD API key to use for fetching quotes from EODHD.com.\n If missing it will read the environment variable \""+eodhdAPIKeyEnv+"\". You can get one at https://eodhd.com/")

// EODHDAPIKey resolves the API key from the flag or the environment.
func EODHDAPIKey() string {
	if *eodhdAPIFlag == "" {
		*eodhdAPIFlag = os.Getenv(eodhdAPIKeyEnv)
	}
	return *eodhdAPIFlag
}

// EODHD fetches real-time quotes from eodhd.com. Responses are cached on
// disk with a daily expiry, so repeated report runs do not hammer the API.
//
// EODHD quotes listed equities only: option and cash symbols are left out
// of the result map, which downstream consumers already treat as "unknown
// price, skip and warn".
type EODHD struct {
	APIKey   string
	Exchange string // EODHD exchange suffix, default "US"
	Currency string // currency of the returned prices, default "USD"

	client *http.Client
}

// NewEODHD returns a provider with the daily disk-cached HTTP client.
func NewEODHD(apiKey string) *EODHD {
	return &EODHD{APIKey: apiKey, Exchange: "US", Currency: "USD", client: daily()}
}

// Quotes implements QuoteProvider.
func (e *EODHD) Quotes(symbols []string) (map[string]Money, error) {
	var codes []string
	for _, sym := range symbols {
		ins, err := ParseSymbol(sym)
		if err != nil || ins.Type != Equity {
			continue
		}
		codes = append(codes, sym+"."+e.Exchange)
	}
	quotes := make(map[string]Money)
	if len(codes) == 0 {
		return quotes, nil
	}

	// https://eodhd.com/api/real-time/AAPL.US?fmt=json&s=MSFT.US,GOOG.US
	addr := fmt.Sprintf("https://eodhd.com/api/real-time/%s?fmt=json&api_token=%s",
		url.PathEscape(codes[0]), url.QueryEscape(e.APIKey))
	if len(codes) > 1 {
		addr += "&s=" + url.QueryEscape(strings.Join(codes[1:], ","))
	}

	client := e.client
	if client == nil {
		client = daily()
	}
	var jobj any
	if err := jwget(client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("error retrieving quotes from eodhd: %w", err)
	}

	// A single requested symbol comes back as one object, several as a
	// list. Normalize to a list.
	items, ok := jobj.([]any)
	if !ok {
		items = []any{jobj}
	}
	for _, item := range items {
		jcode, err := jsonpath.Get("$.code", item)
		if err != nil {
			log.Printf("warning: eodhd quote without code: %v", err)
			continue
		}
		code, ok := jcode.(string)
		if !ok {
			continue
		}
		jclose, err := jsonpath.Get("$.close", item)
		if err != nil {
			log.Printf("warning: eodhd quote for %q without close: %v", code, err)
			continue
		}
		// sometimes the API returns "NA" as a string instead of a number
		val, ok := jclose.(float64)
		if !ok {
			log.Printf("warning: eodhd close for %q is not a number: %v", code, jclose)
			continue
		}
		symbol := strings.TrimSuffix(code, "."+e.Exchange)
		quotes[symbol] = M(val, e.Currency)
	}
	return quotes, nil
}
