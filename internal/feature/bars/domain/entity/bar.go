// Package entity defines the domain models for the bars feature.
package entity

import (
	"regexp"
	"strings"
	"time"
)

// Bar represents one trading day's OHLCV (Open, High, Low, Close, Volume)
// summary for a single stock ticker.
type Bar struct {
	Ticker string    // Uppercase-normalized stock symbol (e.g., "AAPL", "^GSPC")
	Time   time.Time // Timestamp of the trading day this bar summarizes
	Open   float64   // Opening price
	High   float64   // Highest price during the day
	Low    float64   // Lowest price during the day
	Close  float64   // Closing price
	Volume int64     // Trading volume
}

// TickerSummary describes one stored ticker with freshness metadata.
type TickerSummary struct {
	Ticker   string    // Uppercase-normalized stock symbol
	Count    int64     // Number of stored bars for this ticker
	LastTime time.Time // Time of the most recent stored bar
}

// tickerPattern accepts symbols like "AAPL", "BRK-B", "7203.T" and index
// symbols like "^GSPC". Lowercase input is normalized before matching.
var tickerPattern = regexp.MustCompile(`^\^?[A-Z0-9][A-Z0-9.\-]{0,11}$`)

// NormalizeTicker は銘柄コードを正規化（前後空白除去＋大文字化）して返します。
// 正規化後の形式が不正な場合は false を返します。
func NormalizeTicker(raw string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if !tickerPattern.MatchString(s) {
		return "", false
	}
	return s, true
}
