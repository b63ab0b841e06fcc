// Package kraken looks up current asset prices from the Kraken public
// ticker. It is a collaborator of the core: the result is handed to
// the analysis as a plain asset→price map, the core never fetches.
package kraken

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

const tickerURL = "https://api.kraken.com/0/public/Ticker?pair="

// pairPrefixes maps common symbols to Kraken's legacy pair prefixes.
// Anything absent builds a generic <ASSET><CURRENCY> pair.
var pairPrefixes = map[string]string{
	"BTC":  "XXBTZ",
	"ETH":  "XETHZ",
	"LTC":  "XLTCZ",
	"XRP":  "XXRPZ",
	"DOGE": "XDG",
}

func pairFor(asset, currency string) string {
	if prefix, ok := pairPrefixes[asset]; ok {
		return prefix + currency
	}
	return asset + currency
}

// Prices fetches the current price of each asset in the given
// currency. It tries one batch request first and falls back to
// individual requests when the batch is rejected (Kraken rejects the
// whole batch when a single pair is unknown). Assets that cannot be
// priced are simply absent from the result; the caller decides how to
// degrade.
func Prices(client *http.Client, assets []string, currency string) (map[string]float64, error) {
	if len(assets) == 0 {
		return map[string]float64{}, nil
	}

	pairs := make([]string, 0, len(assets))
	byPair := make(map[string]string, len(assets))
	for _, asset := range assets {
		pair := pairFor(asset, currency)
		pairs = append(pairs, pair)
		byPair[pair] = asset
	}

	prices, err := fetch(client, strings.Join(pairs, ","), byPair)
	if err == nil {
		return prices, nil
	}
	log.Printf("batch ticker request failed (%v), trying individual pairs", err)

	// individual fallback
	prices = make(map[string]float64)
	for pair, asset := range byPair {
		single, err := fetch(client, pair, map[string]string{pair: asset})
		if err != nil {
			log.Printf("could not fetch %s (%s): %v", asset, pair, err)
			continue
		}
		for a, p := range single {
			prices[a] = p
		}
	}
	return prices, nil
}

func fetch(client *http.Client, pairs string, byPair map[string]string) (map[string]float64, error) {
	var jobj any
	if err := jwget(client, tickerURL+pairs, &jobj); err != nil {
		return nil, err
	}

	if jerr, err := jsonpath.Get("$.error", jobj); err == nil {
		if list, ok := jerr.([]any); ok && len(list) > 0 {
			return nil, fmt.Errorf("kraken: %v", list)
		}
	}

	jres, err := jsonpath.Get("$.result", jobj)
	if err != nil {
		return nil, fmt.Errorf("no result in ticker response: %w", err)
	}
	result, ok := jres.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected ticker response shape %T", jres)
	}

	prices := make(map[string]float64)
	for pair, details := range result {
		// c is [<last trade price>, <lot volume>]
		jval, err := jsonpath.Get("$.c[0]", details)
		if err != nil {
			continue
		}
		s, ok := jval.(string)
		if !ok {
			continue
		}
		price, err := strconv.ParseFloat(s, 64)
		if err != nil {
			continue
		}

		asset, found := byPair[pair]
		if !found {
			// Kraken sometimes answers with a normalized pair name:
			// fall back to a substring match against what we asked.
			for requested, a := range byPair {
				if strings.Contains(pair, requested) || strings.Contains(requested, pair) {
					asset, found = a, true
					break
				}
			}
		}
		if found {
			prices[asset] = price
		}
	}
	return prices, nil
}

// jwget performs an HTTP GET request and unmarshals the JSON response
// into the provided data structure.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}
