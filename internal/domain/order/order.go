package order

import (
	"time"

	"github.com/xenking/hotpot/internal/domain/cart"
)

// StatePlaced is the terminal lifecycle state of an order. There is no
// transition out of it: no cancellation, refund or edit.
const StatePlaced cart.State = "placed"

// timestampLayout matches the ISO-8601 form produced by browsers
// (millisecond precision, UTC "Z" suffix).
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Order is an immutable snapshot of a cart taken at checkout.
type Order struct {
	Code  string      `json:"code"`
	Items []cart.Line `json:"items"`
	// Total is in whole Naira.
	Total     int64  `json:"total"`
	Timestamp string `json:"timestamp"`
}

// FormatTimestamp renders t the way order timestamps are persisted.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// PlacedAt parses the order timestamp.
func (o Order) PlacedAt() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, o.Timestamp)
}

// Count is the number of units across all items.
func (o Order) Count() int {
	n := 0
	for _, l := range o.Items {
		n += l.Quantity
	}
	return n
}
