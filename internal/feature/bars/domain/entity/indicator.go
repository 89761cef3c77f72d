package entity

import "time"

// IndicatorRecord is one Bar augmented with derived technical indicators.
//
// Indicator fields are pointers: nil means the trailing window has not filled
// yet for that point in the history ("undefined"), which is distinct from a
// real value of zero. Consumers must check for nil rather than comparing
// against 0.
type IndicatorRecord struct {
	Time   time.Time // Timestamp of the underlying bar
	Open   float64   // Opening price
	High   float64   // Highest price
	Low    float64   // Lowest price
	Close  float64   // Closing price
	Volume int64     // Trading volume

	SMA20  *float64 // Simple moving average of close over 20 trailing bars
	SMA50  *float64 // Simple moving average of close over 50 trailing bars
	SMA100 *float64 // Simple moving average of close over 100 trailing bars

	BBMid   *float64 // Bollinger middle band (SMA 20)
	BBUpper *float64 // Bollinger upper band (mid + 2 sample standard deviations)
	BBLower *float64 // Bollinger lower band (mid - 2 sample standard deviations)
}
