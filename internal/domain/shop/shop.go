// Package shop holds the restaurant's opening hours and delivery pricing.
package shop

import (
	"strings"
	"time"
)

// Lagos is West Africa Time. It has no daylight saving, so a fixed zone
// avoids depending on the host's tzdata.
var Lagos = time.FixedZone("WAT", 60*60)

// Status is the open/closed state shown to shoppers.
type Status struct {
	Open    bool
	Message string
}

// StatusAt reports whether the restaurant is open at t. Hours are Monday to
// Friday 10AM-10PM, Saturday 10AM-11PM, closed on Sunday, all Lagos time.
func StatusAt(t time.Time) Status {
	t = t.In(Lagos)
	hour := t.Hour()

	switch t.Weekday() {
	case time.Sunday:
		return Status{Message: "We are closed on Sundays"}
	case time.Saturday:
		if hour >= 10 && hour < 23 {
			return Status{Open: true, Message: "We are open!"}
		}
		return Status{Message: "Currently closed. Open 10AM - 11PM"}
	default:
		if hour >= 10 && hour < 22 {
			return Status{Open: true, Message: "We are open!"}
		}
		return Status{Message: "Currently closed. Open 10AM - 10PM"}
	}
}

// DefaultFreeDeliveryMinimum is the order total from which delivery is free.
const DefaultFreeDeliveryMinimum = 10000

const defaultAreaFee = 2000

var areaFees = map[string]int64{
	"mainland": 1500,
	"island":   2000,
	"lekki":    2500,
	"ajah":     3000,
}

// DeliveryPolicy prices delivery by Lagos area.
type DeliveryPolicy struct {
	// FreeMinimum is the total at or above which delivery costs nothing.
	FreeMinimum int64
}

// Fee returns the delivery fee in whole Naira for an order of total to area.
// Unknown areas pay the island rate.
func (p DeliveryPolicy) Fee(total int64, area string) int64 {
	if total >= p.FreeMinimum {
		return 0
	}
	if fee, ok := areaFees[strings.ToLower(strings.TrimSpace(area))]; ok {
		return fee
	}
	return defaultAreaFee
}
