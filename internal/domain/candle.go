package domain

import "time"

// Candle represents a single OHLCV candlestick data point.
type Candle struct {
	Timestamp int64   // Open time, unix milliseconds
	Open      float64 // Opening price
	High      float64 // Highest price
	Low       float64 // Lowest price
	Close     float64 // Closing price
	Volume    float64 // Trading volume in base asset
}

// OpenTime returns the candle open time as time.Time.
func (c Candle) OpenTime() time.Time {
	return time.UnixMilli(c.Timestamp)
}

// Closes extracts the closing prices from a candle sequence, preserving order.
func Closes(candles []Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}
