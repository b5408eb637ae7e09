package shop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func lagos(day, hour int) time.Time {
	// June 2025: the 15th is a Sunday, the 14th a Saturday, the 16th a Monday.
	return time.Date(2025, 6, day, hour, 30, 0, 0, Lagos)
}

func TestStatusAt(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want Status
	}{
		{name: "sunday noon", at: lagos(15, 12), want: Status{Message: "We are closed on Sundays"}},
		{name: "saturday late evening", at: lagos(14, 22), want: Status{Open: true, Message: "We are open!"}},
		{name: "saturday after close", at: lagos(14, 23), want: Status{Message: "Currently closed. Open 10AM - 11PM"}},
		{name: "saturday early", at: lagos(14, 9), want: Status{Message: "Currently closed. Open 10AM - 11PM"}},
		{name: "monday opening hour", at: lagos(16, 10), want: Status{Open: true, Message: "We are open!"}},
		{name: "monday evening", at: lagos(16, 21), want: Status{Open: true, Message: "We are open!"}},
		{name: "monday after close", at: lagos(16, 22), want: Status{Message: "Currently closed. Open 10AM - 10PM"}},
		{
			name: "utc instant converted to lagos",
			at:   time.Date(2025, 6, 16, 9, 15, 0, 0, time.UTC),
			want: Status{Open: true, Message: "We are open!"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusAt(tt.at))
		})
	}
}

func TestDeliveryPolicy_Fee(t *testing.T) {
	p := DeliveryPolicy{FreeMinimum: DefaultFreeDeliveryMinimum}

	tests := []struct {
		total int64
		area  string
		want  int64
	}{
		{total: 10000, area: "ajah", want: 0},
		{total: 25000, area: "unknown", want: 0},
		{total: 9999, area: "mainland", want: 1500},
		{total: 5000, area: "Island", want: 2000},
		{total: 5000, area: " LEKKI ", want: 2500},
		{total: 5000, area: "ajah", want: 3000},
		{total: 5000, area: "ikeja", want: 2000},
		{total: 0, area: "", want: 2000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Fee(tt.total, tt.area), "total=%d area=%q", tt.total, tt.area)
	}
}
