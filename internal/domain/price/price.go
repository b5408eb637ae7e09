// Package price converts between human-formatted Naira strings and whole
// currency amounts.
package price

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Symbol is the Naira sign used in menu prices and order messages.
const Symbol = "₦"

var printer = message.NewPrinter(language.English)

// Parse extracts a whole amount from a formatted price such as "₦3,500".
//
// Every character that is not a decimal digit is discarded, so decimal
// separators are lost as well; menu prices are always whole Naira. Input
// without digits, or with more digits than fit into an int64, yields 0.
func Parse(s string) int64 {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Format renders amount with thousands grouping, e.g. 9500 as "₦9,500".
func Format(amount int64) string {
	return Symbol + printer.Sprintf("%d", amount)
}
